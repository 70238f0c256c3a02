package speech

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Rate is the speaking rate in words per minute.
const Rate = 150

// ErrNoEngine is returned by Detect when no TTS binary is installed.
var ErrNoEngine = errors.New("no text-to-speech engine found")

// Command speaks by running an external TTS program. Cancelling ctx kills
// the process. With Stdin set the text is piped to the program; otherwise
// it follows a "--" so text starting with a dash is never read as an option.
type Command struct {
	Path  string
	Args  []string
	Stdin bool
}

// engines are tried in order by Detect.
var engines = []struct {
	bin   string
	args  []string
	stdin bool
}{
	{"espeak-ng", []string{"-s", strconv.Itoa(Rate), "--stdin"}, true},
	{"espeak", []string{"-s", strconv.Itoa(Rate), "--stdin"}, true},
	{"say", []string{"-r", strconv.Itoa(Rate), "-f", "-"}, true},
	{"spd-say", []string{"--wait", "-r", "0"}, false},
}

var lookPath = exec.LookPath

// Detect finds the first installed engine.
func Detect() (*Command, error) {
	for _, e := range engines {
		if p, err := lookPath(e.bin); err == nil {
			return &Command{Path: p, Args: e.args, Stdin: e.stdin}, nil
		}
	}
	return nil, ErrNoEngine
}

// ParseCommand builds a Command from a configured command line such as
// "espeak-ng -v en-us -s 150". The text is passed after "--".
func ParseCommand(line string) (*Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrNoEngine
	}
	p, err := lookPath(fields[0])
	if err != nil {
		return nil, err
	}
	return &Command{Path: p, Args: fields[1:]}, nil
}

// Say runs the engine and waits for it to exit.
func (c *Command) Say(ctx context.Context, text string) error {
	args := append([]string(nil), c.Args...)
	if !c.Stdin {
		args = append(args, "--", text)
	}
	cmd := exec.CommandContext(ctx, c.Path, args...)
	if c.Stdin {
		cmd.Stdin = strings.NewReader(text)
	}
	return cmd.Run()
}

// NoOp discards text. It is used when voice output is disabled or no engine
// is available.
type NoOp struct{ Log *zap.Logger }

// Say logs the request at debug level and returns immediately.
func (n NoOp) Say(_ context.Context, text string) error {
	if n.Log != nil {
		n.Log.Debug("speech disabled, dropping utterance", zap.Int("chars", len(text)))
	}
	return nil
}

// NewSynthesizer picks the engine from configuration: disabled yields NoOp,
// a configured command line is parsed, otherwise an installed engine is
// detected. Missing engines fall back to NoOp with a warning.
func NewSynthesizer(commandLine string, disabled bool, log *zap.Logger) Synthesizer {
	if log == nil {
		log = zap.NewNop()
	}
	if disabled {
		return NoOp{Log: log}
	}
	var (
		cmd *Command
		err error
	)
	if strings.TrimSpace(commandLine) != "" {
		cmd, err = ParseCommand(commandLine)
	} else {
		cmd, err = Detect()
	}
	if err != nil {
		log.Warn("voice output unavailable", zap.Error(err))
		return NoOp{Log: log}
	}
	log.Info("voice output", zap.String("engine", cmd.Path))
	return cmd
}
