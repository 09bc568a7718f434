//go:build gui

package main

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/olivierh59500/media-player/pkg/config"
	"github.com/olivierh59500/media-player/pkg/media"
	"github.com/olivierh59500/media-player/pkg/playback"
	"github.com/olivierh59500/media-player/pkg/session"
	"github.com/olivierh59500/media-player/pkg/transport"
)

type MediaPlayerGUI struct {
	app    fyne.App
	window fyne.Window
	cfg    config.Config

	ctrl  *transport.Controller
	state *playback.State
	sess  *session.Session

	// Now playing
	titleLabel  *widget.Label
	artistLabel *widget.Label
	albumLabel  *widget.Label
	timeLabel   *widget.Label
	seekSlider  *widget.Slider
	statusLabel *widget.Label
	shownPath   string

	// Controls
	playButton   *widget.Button
	pauseButton  *widget.Button
	stopButton   *widget.Button
	prevButton   *widget.Button
	nextButton   *widget.Button
	backButton   *widget.Button
	fwdButton    *widget.Button
	loopButton   *widget.Button
	shuffleCheck *widget.Check

	// Browsing
	folderLabel    *widget.Label
	folderList     *widget.List
	folderSel      int
	playlistLabel  *widget.Label
	playlistList   *widget.List
	playlistSel    int
	removeButton   *widget.Button
	moveUpButton   *widget.Button
	moveDownButton *widget.Button

	ticker *time.Ticker
	done   chan struct{}
}

// Custom theme with better colors for dark/light mode
type modernTheme struct{}

func (m modernTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if variant == theme.VariantLight {
		switch name {
		case theme.ColorNameBackground:
			return color.NRGBA{248, 248, 248, 255}
		case theme.ColorNameButton:
			return color.NRGBA{236, 236, 236, 255}
		case theme.ColorNamePrimary:
			return color.NRGBA{0, 137, 123, 255}
		case theme.ColorNameHover:
			return color.NRGBA{226, 226, 226, 255}
		}
	} else {
		switch name {
		case theme.ColorNameBackground:
			return color.NRGBA{28, 28, 30, 255}
		case theme.ColorNameButton:
			return color.NRGBA{48, 48, 52, 255}
		case theme.ColorNamePrimary:
			return color.NRGBA{38, 198, 178, 255}
		case theme.ColorNameHover:
			return color.NRGBA{66, 66, 72, 255}
		}
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (m modernTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (m modernTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (m modernTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNamePadding {
		return 6
	}
	return theme.DefaultTheme().Size(name)
}

func NewMediaPlayerGUI(cfg config.Config, handle transport.Handle) *MediaPlayerGUI {
	p := &MediaPlayerGUI{
		app:         app.NewWithID("io.github.olivierh59500.mediaplayer"),
		cfg:         cfg,
		state:       playback.NewState(),
		folderSel:   -1,
		playlistSel: -1,
		done:        make(chan struct{}),
	}

	// controller calls all happen on the fyne main goroutine
	sched := transport.SchedulerFunc(func(d time.Duration, fn func()) {
		time.AfterFunc(d, func() { fyne.Do(fn) })
	})
	seed := uint64(time.Now().UnixNano())
	p.ctrl = transport.New(handle, p.state, playback.NewPolicy(rand.NewPCG(seed, seed>>1)), sched, cfg.TransportOptions())
	p.sess = session.New(p.ctrl)
	if cfg.WatchFolder {
		p.sess.Dispatch = fyne.Do
		p.sess.OnFolderChanged = p.refreshFolder
	}

	p.app.Settings().SetTheme(&modernTheme{})
	p.createUI()

	return p
}

func (p *MediaPlayerGUI) createUI() {
	p.window = p.app.NewWindow("Media Player")
	p.window.Resize(fyne.NewSize(960, 620))

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Folder...", p.openFolder),
		fyne.NewMenuItem("Open Playlist...", p.openPlaylist),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("New Playlist from Folder...", p.createPlaylist),
		fyne.NewMenuItem("Save Playlist As...", p.savePlaylistAs),
	)
	playbackMenu := fyne.NewMenu("Playback",
		fyne.NewMenuItem("Play/Pause", p.togglePause),
		fyne.NewMenuItem("Stop", p.stop),
		fyne.NewMenuItem("Next", p.playNext),
		fyne.NewMenuItem("Previous", p.playPrevious),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Cycle Loop Mode", p.cycleLoop),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("Keyboard Shortcuts", p.showShortcuts),
		fyne.NewMenuItem("About", p.showAbout),
	)
	p.window.SetMainMenu(fyne.NewMainMenu(fileMenu, playbackMenu, helpMenu))

	split := container.NewHSplit(p.createMainContent(), p.createBrowserContent())
	split.SetOffset(0.55)

	p.window.SetContent(split)
	p.window.Canvas().SetOnTypedKey(p.onKey)
	p.window.SetOnClosed(p.cleanup)

	p.startUpdateTicker()
}

func (p *MediaPlayerGUI) createMainContent() fyne.CanvasObject {
	p.titleLabel = widget.NewLabel("No file loaded")
	p.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	p.titleLabel.Truncation = fyne.TextTruncateEllipsis
	p.artistLabel = widget.NewLabel("")
	p.albumLabel = widget.NewLabel("")

	infoCard := widget.NewCard("Now Playing", "", container.NewVBox(
		p.titleLabel,
		p.artistLabel,
		p.albumLabel,
	))

	p.seekSlider = widget.NewSlider(0, 1)
	p.seekSlider.Step = 0.001
	// the ticker moves the slider with showFraction, which bypasses this
	p.seekSlider.OnChangeEnded = func(v float64) {
		p.report(p.ctrl.Seek(v))
	}
	p.timeLabel = widget.NewLabel("00:00 / 00:00")
	p.timeLabel.Alignment = fyne.TextAlignCenter

	step := p.cfg.StepSeconds
	p.prevButton = widget.NewButtonWithIcon("", theme.MediaSkipPreviousIcon(), p.playPrevious)
	p.backButton = widget.NewButtonWithIcon("", theme.MediaFastRewindIcon(), func() { p.stepBackward(step) })
	p.playButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), p.play)
	p.pauseButton = widget.NewButtonWithIcon("", theme.MediaPauseIcon(), p.pause)
	p.stopButton = widget.NewButtonWithIcon("", theme.MediaStopIcon(), p.stop)
	p.fwdButton = widget.NewButtonWithIcon("", theme.MediaFastForwardIcon(), func() { p.stepForward(step) })
	p.nextButton = widget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), p.playNext)

	buttonContainer := container.NewHBox(
		layout.NewSpacer(),
		p.prevButton,
		p.backButton,
		p.playButton,
		p.pauseButton,
		p.stopButton,
		p.fwdButton,
		p.nextButton,
		layout.NewSpacer(),
	)

	p.loopButton = widget.NewButtonWithIcon("Loop: off", theme.MediaReplayIcon(), p.cycleLoop)
	p.shuffleCheck = widget.NewCheck("Shuffle", func(checked bool) {
		p.state.Shuffle = checked
	})
	optionsContainer := container.NewHBox(layout.NewSpacer(), p.loopButton, p.shuffleCheck, layout.NewSpacer())

	p.statusLabel = widget.NewLabel("Ready")
	statusBar := container.NewBorder(widget.NewSeparator(), nil, nil, p.statusLabel, nil)

	content := container.NewVBox(
		infoCard,
		widget.NewSeparator(),
		p.seekSlider,
		p.timeLabel,
		buttonContainer,
		optionsContainer,
		layout.NewSpacer(),
		statusBar,
	)
	p.updateControls()
	return container.NewPadded(content)
}

func (p *MediaPlayerGUI) createBrowserContent() fyne.CanvasObject {
	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("Folder", theme.FolderIcon(), p.createFolderTab()),
		container.NewTabItemWithIcon("Playlist", theme.ListIcon(), p.createPlaylistTab()),
	)
	return tabs
}

func (p *MediaPlayerGUI) createFolderTab() fyne.CanvasObject {
	p.folderLabel = widget.NewLabel("No folder open")
	p.folderLabel.TextStyle = fyne.TextStyle{Bold: true}
	p.folderLabel.Truncation = fyne.TextTruncateEllipsis

	p.folderList = widget.NewList(
		func() int {
			return len(p.sess.Files)
		},
		func() fyne.CanvasObject {
			l := widget.NewLabel("")
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			label := item.(*widget.Label)
			if id >= len(p.sess.Files) {
				return
			}
			path := p.sess.Files[id]
			label.SetText(filepath.Base(path))
			label.TextStyle = fyne.TextStyle{Bold: path == p.state.CurrentPath}
		},
	)
	p.folderList.OnSelected = func(id widget.ListItemID) {
		p.folderSel = id
		if err := p.sess.PlayFolderItem(id); err != nil {
			p.report(err)
			return
		}
		p.afterLoad()
	}

	openButton := widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), p.openFolder)
	addButton := widget.NewButtonWithIcon("Add to Playlist", theme.ContentAddIcon(), p.addSelectedToPlaylist)
	newButton := widget.NewButtonWithIcon("New Playlist", theme.DocumentCreateIcon(), p.createPlaylist)

	return container.NewBorder(
		container.NewVBox(p.folderLabel, widget.NewSeparator()),
		container.NewHBox(openButton, layout.NewSpacer(), addButton, newButton),
		nil, nil,
		p.folderList,
	)
}

func (p *MediaPlayerGUI) createPlaylistTab() fyne.CanvasObject {
	p.playlistLabel = widget.NewLabel("No playlist open")
	p.playlistLabel.TextStyle = fyne.TextStyle{Bold: true}

	p.playlistList = widget.NewList(
		func() int {
			if p.sess.Playlist == nil {
				return 0
			}
			return p.sess.Playlist.Size()
		},
		func() fyne.CanvasObject {
			l := widget.NewLabel("")
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			label := item.(*widget.Label)
			entry, err := p.sess.Playlist.Get(id)
			if err != nil {
				return
			}
			label.SetText(p.sess.Title(entry))
			label.TextStyle = fyne.TextStyle{Bold: entry == p.state.CurrentPath}
		},
	)
	p.playlistList.OnSelected = func(id widget.ListItemID) {
		p.playlistSel = id
		p.updatePlaylistButtons()
		if err := p.sess.PlayPlaylistItem(id); err != nil {
			p.report(err)
			return
		}
		p.afterLoad()
	}

	openButton := widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), p.openPlaylist)
	p.removeButton = widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), p.removeSelected)
	p.moveUpButton = widget.NewButtonWithIcon("", theme.MoveUpIcon(), p.moveSelectedUp)
	p.moveDownButton = widget.NewButtonWithIcon("", theme.MoveDownIcon(), p.moveSelectedDown)
	p.updatePlaylistButtons()

	return container.NewBorder(
		container.NewVBox(p.playlistLabel, widget.NewSeparator()),
		container.NewHBox(openButton, layout.NewSpacer(), p.removeButton, p.moveUpButton, p.moveDownButton),
		nil, nil,
		p.playlistList,
	)
}

func (p *MediaPlayerGUI) startUpdateTicker() {
	p.ticker = time.NewTicker(p.cfg.TickInterval())

	go func() {
		for {
			select {
			case <-p.ticker.C:
				fyne.Do(p.tick)
			case <-p.done:
				return
			}
		}
	}()
}

func (p *MediaPlayerGUI) tick() {
	st, err := p.ctrl.Tick()
	if err != nil {
		p.report(err)
	}

	showFraction(p.seekSlider, st.Fraction)
	p.timeLabel.SetText(fmt.Sprintf("%s / %s", formatTime(st.Elapsed), formatTime(st.Total)))

	switch {
	case st.Path == "":
		p.statusLabel.SetText("Ready")
	case st.Stopped:
		p.statusLabel.SetText("Stopped")
	case st.Paused:
		p.statusLabel.SetText("Paused")
	default:
		p.statusLabel.SetText("Playing")
	}

	if st.Advanced || st.Path != p.shownPath {
		p.showNowPlaying(st.Path)
		p.folderList.Refresh()
		p.playlistList.Refresh()
	}
	p.updateControls()
}

func (p *MediaPlayerGUI) showNowPlaying(path string) {
	p.shownPath = path
	if path == "" {
		p.titleLabel.SetText("No file loaded")
		p.artistLabel.SetText("")
		p.albumLabel.SetText("")
		p.window.SetTitle("Media Player")
		return
	}
	info := media.Describe(path)
	p.titleLabel.SetText(info.Title)
	p.artistLabel.SetText(info.Artist)
	p.albumLabel.SetText(info.Album)
	p.window.SetTitle(info.Label() + " - Media Player")
}

func (p *MediaPlayerGUI) updateControls() {
	loaded := p.state.HasCurrent()
	for _, b := range []*widget.Button{p.stopButton, p.backButton, p.fwdButton} {
		setEnabled(b, loaded && !p.state.Stopped)
	}
	setEnabled(p.playButton, loaded && p.state.Paused && !p.state.Stopped)
	setEnabled(p.pauseButton, loaded && !p.state.Paused)
	setEnabled(p.prevButton, len(p.state.Queue) > 0)
	setEnabled(p.nextButton, len(p.state.Queue) > 0)
	p.loopButton.SetText("Loop: " + p.state.Loop.String())
	if p.shuffleCheck.Checked != p.state.Shuffle {
		p.shuffleCheck.SetChecked(p.state.Shuffle)
	}
}

// showFraction moves the slider without firing its change callbacks;
// SetValue would end in OnChangeEnded and seek the player.
func showFraction(s *widget.Slider, v float64) {
	if s.Value == v {
		return
	}
	s.Value = v
	s.Refresh()
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

// afterLoad refreshes the panels once a new item was opened.
func (p *MediaPlayerGUI) afterLoad() {
	p.showNowPlaying(p.state.CurrentPath)
	p.folderList.Refresh()
	p.playlistList.Refresh()
	p.updateControls()
}

func (p *MediaPlayerGUI) onKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyS:
		p.stop()
	case fyne.KeySpace, fyne.KeyK:
		p.togglePause()
	case fyne.KeyL:
		p.stepForward(p.cfg.KeyStepSeconds)
	case fyne.KeyJ:
		p.stepBackward(p.cfg.KeyStepSeconds)
	}
}

func (p *MediaPlayerGUI) play() {
	p.report(p.ctrl.Play())
	p.updateControls()
}

func (p *MediaPlayerGUI) pause() {
	p.report(p.ctrl.Pause())
	p.updateControls()
}

func (p *MediaPlayerGUI) togglePause() {
	p.report(p.ctrl.TogglePause())
	p.updateControls()
}

func (p *MediaPlayerGUI) stop() {
	p.report(p.ctrl.Stop())
	p.afterLoad()
}

func (p *MediaPlayerGUI) playNext() {
	if _, err := p.ctrl.AdvanceToNext(); err != nil {
		p.report(err)
	}
	p.afterLoad()
}

func (p *MediaPlayerGUI) playPrevious() {
	if _, err := p.ctrl.Previous(); err != nil {
		p.report(err)
	}
	p.afterLoad()
}

func (p *MediaPlayerGUI) stepForward(seconds float64) {
	if _, err := p.ctrl.StepForward(seconds); err != nil && !errors.Is(err, transport.ErrTimingUnavailable) {
		p.report(err)
	}
}

func (p *MediaPlayerGUI) stepBackward(seconds float64) {
	if _, err := p.ctrl.StepBackward(seconds); err != nil && !errors.Is(err, transport.ErrTimingUnavailable) {
		p.report(err)
	}
}

func (p *MediaPlayerGUI) cycleLoop() {
	p.state.Loop = p.state.Loop.Next()
	p.updateControls()
}

func (p *MediaPlayerGUI) openFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		p.loadFolder(uri.Path())
	}, p.window)
}

func (p *MediaPlayerGUI) loadFolder(dir string) {
	if err := p.sess.OpenFolder(dir); err != nil {
		p.report(err)
		return
	}
	p.folderSel = -1
	p.folderList.UnselectAll()
	p.refreshFolder()
}

func (p *MediaPlayerGUI) refreshFolder() {
	p.folderLabel.SetText(fmt.Sprintf("%s (%d files)", p.sess.Folder, len(p.sess.Files)))
	p.folderList.Refresh()
}

func (p *MediaPlayerGUI) openPlaylist() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		p.loadPlaylist(reader.URI().Path())
	}, p.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".m3u"}))
	d.Show()
}

func (p *MediaPlayerGUI) loadPlaylist(path string) {
	if err := p.sess.OpenPlaylist(path); err != nil {
		p.report(err)
		return
	}
	p.playlistSel = -1
	p.playlistList.UnselectAll()
	p.refreshPlaylist()
}

func (p *MediaPlayerGUI) refreshPlaylist() {
	if p.sess.Playlist != nil {
		p.playlistLabel.SetText(fmt.Sprintf("%s (%d items)", p.sess.Playlist.Name, p.sess.Playlist.Size()))
	}
	p.playlistList.Refresh()
	p.updatePlaylistButtons()
}

func (p *MediaPlayerGUI) updatePlaylistButtons() {
	has := p.sess.Playlist != nil && p.playlistSel >= 0 && p.playlistSel < p.sess.Playlist.Size()
	setEnabled(p.removeButton, has)
	setEnabled(p.moveUpButton, has && p.playlistSel > 0)
	setEnabled(p.moveDownButton, has && p.playlistSel < p.sess.Playlist.Size()-1)
}

func (p *MediaPlayerGUI) createPlaylist() {
	if len(p.sess.Files) == 0 {
		p.report(session.ErrNoFiles)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()

		path := writer.URI().Path()
		if !strings.HasSuffix(strings.ToLower(path), ".m3u") {
			path += ".m3u"
		}
		if err := p.sess.CreatePlaylist(path, p.sess.Files); err != nil {
			p.report(err)
			return
		}
		p.refreshPlaylist()
		dialog.ShowInformation("Playlist Created",
			fmt.Sprintf("Saved %d files to %s", p.sess.Playlist.Size(), filepath.Base(path)), p.window)
	}, p.window)
	d.SetFileName("playlist.m3u")
	d.Show()
}

func (p *MediaPlayerGUI) savePlaylistAs() {
	if p.sess.Playlist == nil {
		p.report(session.ErrNoPlaylist)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()

		path := writer.URI().Path()
		if !strings.HasSuffix(strings.ToLower(path), ".m3u") {
			path += ".m3u"
		}
		if err := p.sess.Playlist.SaveAs(path); err != nil {
			dialog.ShowError(err, p.window)
			return
		}
		p.refreshPlaylist()
	}, p.window)
	d.SetFileName(p.sess.Playlist.Name + ".m3u")
	d.Show()
}

func (p *MediaPlayerGUI) addSelectedToPlaylist() {
	if p.folderSel < 0 || p.folderSel >= len(p.sess.Files) {
		p.report(session.ErrNoSelection)
		return
	}
	if err := p.sess.AddToPlaylist([]string{p.sess.Files[p.folderSel]}); err != nil {
		p.report(err)
		return
	}
	p.refreshPlaylist()
}

// Playlist edits rewrite the M3U file so it matches the panel.
func (p *MediaPlayerGUI) editPlaylist(edit func() error, sel int) {
	pl := p.sess.Playlist
	if pl == nil {
		return
	}
	if err := edit(); err != nil {
		p.report(err)
		return
	}
	if pl.Path != "" {
		if err := pl.SaveAs(pl.Path); err != nil {
			dialog.ShowError(err, p.window)
		}
	}
	// move the highlight without playing the item
	onSelected := p.playlistList.OnSelected
	p.playlistList.OnSelected = nil
	if sel >= 0 && sel < pl.Size() {
		p.playlistList.Select(sel)
		p.playlistSel = sel
	} else {
		p.playlistList.UnselectAll()
		p.playlistSel = -1
	}
	p.playlistList.OnSelected = onSelected
	p.refreshPlaylist()
}

func (p *MediaPlayerGUI) removeSelected() {
	i := p.playlistSel
	p.editPlaylist(func() error { return p.sess.Playlist.Remove(i) }, -1)
}

func (p *MediaPlayerGUI) moveSelectedUp() {
	i := p.playlistSel
	p.editPlaylist(func() error { return p.sess.Playlist.MoveUp(i) }, i-1)
}

func (p *MediaPlayerGUI) moveSelectedDown() {
	i := p.playlistSel
	p.editPlaylist(func() error { return p.sess.Playlist.MoveDown(i) }, i+1)
}

// report shows user-facing errors as dialogs.
func (p *MediaPlayerGUI) report(err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, session.ErrNoSelection):
		dialog.ShowInformation("Select a file", "Please select a file!", p.window)
	case errors.Is(err, session.ErrEmptyFolder):
		dialog.ShowInformation("Folder Empty", "The folder contains no video or music files.", p.window)
	case errors.Is(err, session.ErrEmptyPlaylist):
		dialog.ShowInformation("Playlist Empty", "The playlist contains no playable files.", p.window)
	case errors.Is(err, session.ErrNoPlaylist):
		dialog.ShowInformation("No Playlist", "Load a playlist first or create a new one.", p.window)
	case errors.Is(err, session.ErrNoFiles):
		dialog.ShowInformation("No Files", "Open a folder with media files first.", p.window)
	default:
		dialog.ShowError(err, p.window)
	}
}

func (p *MediaPlayerGUI) showShortcuts() {
	dialog.ShowInformation("Keyboard Shortcuts",
		fmt.Sprintf("Space / K  play or pause\nS  stop\nL  forward %g s\nJ  back %g s",
			p.cfg.KeyStepSeconds, p.cfg.KeyStepSeconds), p.window)
}

func (p *MediaPlayerGUI) showAbout() {
	aboutContent := container.NewVBox(
		widget.NewLabelWithStyle("Media Player", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Plays music and video files from folders and M3U playlists."),
		widget.NewLabel("Video and streams need a build with libmpv (-tags mpv)."),
	)
	dialog.ShowCustom("About Media Player", "OK", aboutContent, p.window)
}

func (p *MediaPlayerGUI) cleanup() {
	if p.ticker != nil {
		p.ticker.Stop()
		close(p.done)
		p.ticker = nil
	}
	p.sess.Close()
	p.ctrl.Close()
}

func (p *MediaPlayerGUI) Run() {
	p.window.ShowAndRun()
}

func formatTime(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
