package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	logging "github.com/ipfs/go-log/v2"
	flag "github.com/spf13/pflag"

	"github.com/olivierh59500/media-player/pkg/backend"
	"github.com/olivierh59500/media-player/pkg/config"
	"github.com/olivierh59500/media-player/pkg/media"
	"github.com/olivierh59500/media-player/pkg/playback"
	"github.com/olivierh59500/media-player/pkg/session"
	"github.com/olivierh59500/media-player/pkg/transport"
)

var log = logging.Logger("mediaplayer")

var (
	configPath = flag.String("config", "", "Settings file (default <user config dir>/media-player/config.json)")
	backendOpt = flag.String("backend", "", "Playback backend (auto, mpv, native)")
	output     = flag.String("output", "", "Native audio output (oto, wav, null)")
	wavFile    = flag.String("wav", "", "Output WAV file (when using wav output)")
	sampleRate = flag.Int("rate", 0, "Native output sample rate (Hz)")
	bufferSize = flag.Int("buffer", 0, "Native output buffer size (frames)")
	logLevel   = flag.String("log-level", "", "Log level (debug, info, warn, error)")
	loopOpt    = flag.String("loop", "off", "Loop mode (off, all, one)")
	shuffle    = flag.Bool("shuffle", false, "Shuffle playback")
	noWatch    = flag.Bool("no-watch", false, "Do not watch the open folder for changes")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [file | folder | playlist.m3u]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Media Player - play music and video files from the terminal\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	path := *configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			fatalf("Failed to locate settings: %v", err)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		fatalf("Failed to load settings: %v", err)
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		fatalf("Invalid settings: %v", err)
	}
	if err := cfg.ApplyLogLevel(); err != nil {
		fatalf("Invalid log level: %v", err)
	}

	loop, err := playback.ParseLoopMode(*loopOpt)
	if err != nil {
		fatalf("%v", err)
	}

	handle, name, err := backend.Open(cfg)
	if err != nil {
		fatalf("Failed to start playback backend: %v", err)
	}
	log.Infow("backend ready", "backend", name)

	p := newPlayer(cfg, handle)
	defer p.close()

	p.state.Loop = loop
	p.state.Shuffle = *shuffle

	if flag.NArg() > 0 {
		p.openArg(flag.Arg(0))
	} else if cfg.LastFolder != "" {
		if err := p.sess.OpenFolder(cfg.LastFolder); err == nil {
			p.source = sourceFolder
		}
	}

	p.run()

	cfg.LastFolder = p.sess.Folder
	if p.sess.Playlist != nil {
		cfg.LastPlaylist = p.sess.Playlist.Path
	}
	if err := config.Save(path, cfg); err != nil {
		log.Warnw("settings not saved", "path", path, "err", err)
	}
}

func applyFlags(cfg *config.Config) {
	if *backendOpt != "" {
		cfg.Backend = *backendOpt
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *wavFile != "" {
		cfg.WAVFile = *wavFile
	}
	if *sampleRate != 0 {
		cfg.SampleRate = *sampleRate
	}
	if *bufferSize != 0 {
		cfg.BufferSize = *bufferSize
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *noWatch {
		cfg.WatchFolder = false
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

type source int

const (
	sourceNone source = iota
	sourceFolder
	sourcePlaylist
)

type player struct {
	cfg   config.Config
	ctrl  *transport.Controller
	state *playback.State
	sess  *session.Session

	rl     *readline.Instance
	prompt string
	source source

	deferred chan func()
	quit     chan struct{}
}

func newPlayer(cfg config.Config, handle transport.Handle) *player {
	p := &player{
		cfg:      cfg,
		state:    playback.NewState(),
		deferred: make(chan func(), 16),
		quit:     make(chan struct{}),
	}
	seed := uint64(time.Now().UnixNano())
	sched := transport.SchedulerFunc(func(d time.Duration, fn func()) {
		time.AfterFunc(d, func() { p.post(fn) })
	})
	p.ctrl = transport.New(handle, p.state, playback.NewPolicy(rand.NewPCG(seed, seed>>1)), sched, cfg.TransportOptions())
	p.sess = session.New(p.ctrl)
	if cfg.WatchFolder {
		p.sess.Dispatch = p.post
		p.sess.OnFolderChanged = func() {
			p.printf("Folder changed: %d files\n", len(p.sess.Files))
		}
	}
	return p
}

// post queues fn for the command loop without blocking the caller; the
// loop may itself be waiting on that caller (watcher close). fn is dropped
// once the loop is gone.
func (p *player) post(fn func()) {
	select {
	case p.deferred <- fn:
		return
	case <-p.quit:
		return
	default:
	}
	go func() {
		select {
		case p.deferred <- fn:
		case <-p.quit:
		}
	}()
}

func (p *player) close() {
	p.sess.Close()
	p.ctrl.Close()
}

func (p *player) printf(format string, args ...any) {
	var w io.Writer = os.Stdout
	if p.rl != nil {
		w = p.rl.Stdout()
	}
	fmt.Fprintf(w, format, args...)
}

func (p *player) run() {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		AutoComplete:    p.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		fatalf("Failed to start prompt: %v", err)
	}
	defer rl.Close()
	p.rl = rl

	lines := make(chan string)
	go func() {
		defer close(lines)
		for {
			line, err := rl.Readline()
			if err != nil {
				// ErrInterrupt and io.EOF both end the session
				return
			}
			select {
			case lines <- line:
			case <-p.quit:
				return
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(p.cfg.TickInterval())
	defer ticker.Stop()

	p.printf("Type 'help' for commands.\n")
	defer close(p.quit)
	for {
		select {
		case <-sigChan:
			p.printf("\nStopping...\n")
			return

		case line, ok := <-lines:
			if !ok {
				return
			}
			if !p.exec(line) {
				return
			}

		case fn := <-p.deferred:
			fn()

		case <-ticker.C:
			st, err := p.ctrl.Tick()
			if err != nil {
				p.printf("%v\n", err)
			}
			if st.Advanced {
				p.printf("Now playing: %s\n", p.sess.Title(st.Path))
			}
			p.updatePrompt(st)
		}
	}
}

func (p *player) updatePrompt(st transport.Status) {
	icon := ">"
	switch {
	case st.Path == "" || st.Stopped:
		icon = "#"
	case st.Paused:
		icon = "||"
	}
	prompt := fmt.Sprintf("[%s %s/%s %s] > ", icon,
		formatDuration(st.Elapsed), formatDuration(st.Total), p.modes())
	if prompt != p.prompt {
		p.prompt = prompt
		p.rl.SetPrompt(prompt)
		p.rl.Refresh()
	}
}

func (p *player) modes() string {
	s := "loop:" + p.state.Loop.String()
	if p.state.Shuffle {
		s += " shuffle"
	}
	return s
}

func (p *player) openArg(arg string) {
	info, err := os.Stat(arg)
	switch {
	case err == nil && info.IsDir():
		p.report(p.sess.OpenFolder(arg))
		if p.sess.Folder != "" {
			p.source = sourceFolder
			p.report(p.sess.PlayFolderItem(0))
		}
	case strings.EqualFold(filepath.Ext(arg), ".m3u"):
		p.report(p.sess.OpenPlaylist(arg))
		if p.sess.Playlist != nil {
			p.source = sourcePlaylist
			p.report(p.sess.PlayPlaylistItem(0))
		}
	default:
		p.report(p.ctrl.Open(arg))
	}
}

// exec runs one command line. It returns false to quit.
func (p *player) exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	cmd, args := fields[0], fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), cmd))

	switch cmd {
	case "help", "?":
		p.printf("%s", helpText)
	case "quit", "exit", "q":
		return false

	case "folder":
		if err := p.sess.OpenFolder(rest); err != nil {
			p.report(err)
			break
		}
		p.source = sourceFolder
		p.listFiles()
	case "files":
		p.listFiles()
	case "playlist":
		if err := p.sess.OpenPlaylist(rest); err != nil {
			p.report(err)
			break
		}
		p.source = sourcePlaylist
		p.listEntries()
	case "entries":
		p.listEntries()
	case "new":
		p.createPlaylist(args)
	case "add":
		files, err := p.selectFiles(args)
		if err == nil {
			err = p.sess.AddToPlaylist(files)
		}
		p.report(err)
	case "open":
		p.report(p.ctrl.Open(rest))

	case "play":
		if len(args) == 0 {
			p.report(p.ctrl.Play())
			break
		}
		p.playItem(args[0])
	case "pause":
		p.report(p.ctrl.Pause())
	case "toggle", "k":
		p.report(p.ctrl.TogglePause())
	case "stop", "s":
		p.report(p.ctrl.Stop())
	case "next", "n":
		ok, err := p.ctrl.AdvanceToNext()
		if err == nil && !ok {
			p.printf("No next item with loop off\n")
		}
		p.report(err)
		p.nowPlaying()
	case "prev", "p":
		p.report(ignoreBool(p.ctrl.Previous()))
		p.nowPlaying()

	case "seek":
		pct, err := parseArg(args, 0)
		if err != nil {
			p.report(err)
			break
		}
		p.report(p.ctrl.Seek(pct / 100))
	case "fwd":
		p.step(args, p.cfg.StepSeconds, p.ctrl.StepForward)
	case "back":
		p.step(args, p.cfg.StepSeconds, p.ctrl.StepBackward)
	case "l":
		p.step(nil, p.cfg.KeyStepSeconds, p.ctrl.StepForward)
	case "j":
		p.step(nil, p.cfg.KeyStepSeconds, p.ctrl.StepBackward)

	case "loop":
		if len(args) == 0 {
			p.state.Loop = p.state.Loop.Next()
		} else if m, err := playback.ParseLoopMode(args[0]); err != nil {
			p.report(err)
			break
		} else {
			p.state.Loop = m
		}
		p.printf("Loop: %s\n", p.state.Loop)
	case "shuffle":
		p.state.Shuffle = !p.state.Shuffle
		p.printf("Shuffle: %v\n", p.state.Shuffle)

	case "status":
		p.status()
	default:
		p.printf("Unknown command %q, type 'help'\n", cmd)
	}
	return true
}

func (p *player) playItem(arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		p.report(session.ErrNoSelection)
		return
	}
	switch p.source {
	case sourceFolder:
		err = p.sess.PlayFolderItem(n - 1)
	case sourcePlaylist:
		err = p.sess.PlayPlaylistItem(n - 1)
	default:
		err = session.ErrNoSelection
	}
	p.report(err)
	if err == nil {
		p.nowPlaying()
	}
}

func (p *player) step(args []string, def float64, fn func(float64) (float64, error)) {
	secs, err := parseArg(args, def)
	if err == nil {
		_, err = fn(secs)
	}
	p.report(err)
}

// selectFiles maps 1-based folder indexes to paths; no indexes means all.
func (p *player) selectFiles(args []string) ([]string, error) {
	if len(args) == 0 {
		if len(p.sess.Files) == 0 {
			return nil, session.ErrNoFiles
		}
		return p.sess.Files, nil
	}
	var files []string
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 || n > len(p.sess.Files) {
			return nil, fmt.Errorf("%w: %s", session.ErrNoSelection, a)
		}
		files = append(files, p.sess.Files[n-1])
	}
	return files, nil
}

func (p *player) createPlaylist(args []string) {
	if len(args) == 0 {
		p.report(session.ErrNoSelection)
		return
	}
	name := args[0]
	if !strings.EqualFold(filepath.Ext(name), ".m3u") {
		name += ".m3u"
	}
	files, err := p.selectFiles(args[1:])
	if err == nil {
		err = p.sess.CreatePlaylist(name, files)
	}
	if err != nil {
		p.report(err)
		return
	}
	p.source = sourcePlaylist
	p.printf("Saved %s (%d entries)\n", p.sess.Playlist.Path, p.sess.Playlist.Size())
}

func (p *player) listFiles() {
	if p.sess.Folder == "" {
		p.report(session.ErrNoSelection)
		return
	}
	p.printf("%s\n", p.sess.Folder)
	for i, f := range p.sess.Files {
		p.printf("%3d  %s\n", i+1, filepath.Base(f))
	}
}

func (p *player) listEntries() {
	if p.sess.Playlist == nil {
		p.report(session.ErrNoPlaylist)
		return
	}
	p.printf("%s\n", p.sess.Playlist.Name)
	for i, e := range p.sess.Playlist.Entries {
		p.printf("%3d  %s\n", i+1, p.sess.Title(e))
	}
}

func (p *player) nowPlaying() {
	if p.state.HasCurrent() && !p.state.Stopped {
		p.printf("Now playing: %s\n", p.sess.Title(p.state.CurrentPath))
	}
}

func (p *player) status() {
	if !p.state.HasCurrent() {
		p.printf("Nothing playing (%s)\n", p.modes())
		return
	}
	elapsed, total := p.ctrl.ElapsedAndTotal()
	kind := "audio"
	if media.HasVideo(p.state.CurrentPath) {
		kind = "video"
	}
	p.printf("%s [%s]\n", p.sess.Title(p.state.CurrentPath), kind)
	p.printf("[%s] %s / %s  item %d/%d  paused=%v stopped=%v  %s\n",
		makeProgressBar(p.ctrl.PositionFraction()*100, 30),
		formatDuration(elapsed), formatDuration(total),
		p.state.CurrentIndex+1, len(p.state.Queue),
		p.state.Paused, p.state.Stopped, p.modes())
}

// report prints user-facing errors; playback state is left as is.
func (p *player) report(err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, session.ErrNoSelection):
		p.printf("Please select a file!\n")
	case errors.Is(err, session.ErrEmptyFolder):
		p.printf("Folder Empty: %v\n", err)
	case errors.Is(err, session.ErrEmptyPlaylist):
		p.printf("Playlist Empty: %v\n", err)
	default:
		p.printf("Error: %v\n", err)
	}
}

func (p *player) completer() *readline.PrefixCompleter {
	paths := readline.PcItemDynamic(listFiles)
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("folder", paths),
		readline.PcItem("playlist", paths),
		readline.PcItem("open", paths),
		readline.PcItem("new", paths),
		readline.PcItem("files"),
		readline.PcItem("entries"),
		readline.PcItem("add"),
		readline.PcItem("play"),
		readline.PcItem("pause"),
		readline.PcItem("toggle"),
		readline.PcItem("stop"),
		readline.PcItem("next"),
		readline.PcItem("prev"),
		readline.PcItem("seek"),
		readline.PcItem("fwd"),
		readline.PcItem("back"),
		readline.PcItem("loop",
			readline.PcItem("off"),
			readline.PcItem("all"),
			readline.PcItem("one"),
		),
		readline.PcItem("shuffle"),
		readline.PcItem("status"),
		readline.PcItem("quit"),
	)
}

// listFiles completes the path being typed after the command word.
func listFiles(line string) []string {
	fields := strings.SplitN(line, " ", 2)
	partial := ""
	if len(fields) == 2 {
		partial = fields[1]
	}
	dir := filepath.Dir(partial)
	if partial == "" {
		dir = "."
	}
	entries, _ := os.ReadDir(dir)
	var names []string
	for _, e := range entries {
		name := filepath.Join(dir, e.Name())
		if e.IsDir() {
			name += string(filepath.Separator)
		}
		if strings.HasPrefix(name, partial) {
			names = append(names, name)
		}
	}
	return names
}

func parseArg(args []string, def float64) (float64, error) {
	if len(args) == 0 {
		return def, nil
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %s", args[0])
	}
	return v, nil
}

func ignoreBool(_ bool, err error) error {
	return err
}

func formatDuration(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func makeProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("=", filled)
	if filled < width {
		bar += ">"
		bar += strings.Repeat(" ", width-filled-1)
	}

	return bar
}

const helpText = `Browsing:
  folder <dir>           list a folder's media files
  files                  show the folder listing
  playlist <file.m3u>    open a playlist
  entries                show the playlist
  new <file.m3u> [n...]  create a playlist from folder items (all if none given)
  add [n...]             append folder items to the open playlist
  open <path|url>        play a single file
Transport:
  play [n]               resume, or play item n of the last listing
  pause | toggle (k) | stop (s)
  next (n) | prev (p)
  seek <percent>
  fwd [s] | back [s]     step, default from settings; l / j step 10 s
  loop [off|all|one]     set or cycle the loop mode
  shuffle                toggle shuffle
  status | help | quit
`
