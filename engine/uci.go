package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/jacokyle01/rating-features/models"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"
)

// Config describes how to start a UCI engine.
type Config struct {
	Path    string
	Args    []string
	Env     []string // appended to the current environment
	Threads int
	HashMB  int
	Logger  zerolog.Logger
}

// UCIEngine wraps a UCI chess engine process. It is not safe for concurrent
// use; see Synchronized.
type UCIEngine struct {
	cmd    *exec.Cmd
	pipe   io.WriteCloser
	stdin  *bufio.Writer
	stdout *bufio.Scanner
	log    zerolog.Logger
	closed bool
}

// NewUCIEngine starts the engine and completes the UCI handshake
func NewUCIEngine(cfg Config) (*UCIEngine, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("engine path required")
	}
	cmd := exec.Command(cfg.Path, cfg.Args...)
	if len(cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), cfg.Env...)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start engine %s: %w", cfg.Path, err)
	}

	e := &UCIEngine{
		cmd:    cmd,
		pipe:   stdin,
		stdin:  bufio.NewWriter(stdin),
		stdout: bufio.NewScanner(stdout),
		log:    cfg.Logger.With().Str("engine", cfg.Path).Logger(),
	}

	if err := e.handshake(cfg); err != nil {
		e.Close()
		return nil, err
	}
	e.log.Debug().Int("pid", cmd.Process.Pid).Msg("engine started")

	return e, nil
}

func (e *UCIEngine) handshake(cfg Config) error {
	if err := e.sendCommand("uci"); err != nil {
		return err
	}
	if _, err := e.waitForResponse("uciok"); err != nil {
		return err
	}
	if cfg.Threads > 0 {
		if err := e.sendCommand(fmt.Sprintf("setoption name Threads value %d", cfg.Threads)); err != nil {
			return err
		}
	}
	if cfg.HashMB > 0 {
		if err := e.sendCommand(fmt.Sprintf("setoption name Hash value %d", cfg.HashMB)); err != nil {
			return err
		}
	}
	if err := e.sendCommand("ucinewgame"); err != nil {
		return err
	}
	return e.ready()
}

func (e *UCIEngine) ready() error {
	if err := e.sendCommand("isready"); err != nil {
		return err
	}
	_, err := e.waitForResponse("readyok")
	return err
}

func (e *UCIEngine) sendCommand(cmd string) error {
	if _, err := e.stdin.WriteString(cmd + "\n"); err != nil {
		return fmt.Errorf("write %q: %w", cmd, err)
	}
	if err := e.stdin.Flush(); err != nil {
		return fmt.Errorf("write %q: %w", cmd, err)
	}
	return nil
}

func (e *UCIEngine) waitForResponse(expected string) (string, error) {
	for e.stdout.Scan() {
		line := e.stdout.Text()
		if strings.Contains(line, expected) {
			return line, nil
		}
	}
	return "", e.readErr(expected)
}

func (e *UCIEngine) readUntilBestMove() ([]string, error) {
	var lines []string
	for e.stdout.Scan() {
		line := e.stdout.Text()
		lines = append(lines, line)
		if strings.HasPrefix(line, "bestmove") {
			return lines, nil
		}
	}
	return lines, e.readErr("bestmove")
}

func (e *UCIEngine) readErr(expected string) error {
	if err := e.stdout.Err(); err != nil {
		return fmt.Errorf("waiting for %s: %w", expected, err)
	}
	return fmt.Errorf("waiting for %s: %w", expected, io.ErrUnexpectedEOF)
}

// Evaluate searches pos for the given wall-clock budget.
func (e *UCIEngine) Evaluate(pos *chess.Position, budget time.Duration) (models.Evaluation, error) {
	if e.closed {
		return models.Evaluation{}, ErrEngineClosed
	}
	fen := pos.String()
	moveTime := budget.Milliseconds()
	if moveTime < 1 {
		moveTime = 1
	}

	if err := e.sendCommand("position fen " + fen); err != nil {
		return models.Evaluation{}, err
	}
	if err := e.sendCommand(fmt.Sprintf("go movetime %d", moveTime)); err != nil {
		return models.Evaluation{}, err
	}

	lines, err := e.readUntilBestMove()
	if err != nil {
		return models.Evaluation{}, err
	}

	res := parseSearch(lines)
	res.FEN = fen
	e.log.Trace().
		Str("fen", fen).
		Str("best_move", res.BestMove).
		Int("depth", res.Depth).
		Msg("evaluated")

	return res, nil
}

// parseSearch folds the info lines of one search into an Evaluation. Later
// lines override earlier ones, so the deepest completed iteration wins.
func parseSearch(lines []string) models.Evaluation {
	var res models.Evaluation

	for _, line := range lines {
		if strings.HasPrefix(line, "info") {
			parts := strings.Fields(line)
			if len(parts) > 1 && parts[1] == "string" {
				continue
			}
		Fields:
			for i, part := range parts {
				switch part {
				case "score":
					if i+2 < len(parts) {
						var v int
						if _, err := fmt.Sscanf(parts[i+2], "%d", &v); err != nil {
							continue
						}
						switch parts[i+1] {
						case "cp":
							res.Score = models.Score{CP: v, Defined: true}
						case "mate":
							res.Score = models.Score{Mate: v, IsMate: true, Defined: true}
						}
					}
				case "depth":
					if i+1 < len(parts) {
						fmt.Sscanf(parts[i+1], "%d", &res.Depth)
					}
				case "nodes":
					if i+1 < len(parts) {
						fmt.Sscanf(parts[i+1], "%d", &res.Nodes)
					}
				case "nps":
					if i+1 < len(parts) {
						fmt.Sscanf(parts[i+1], "%d", &res.NodesPerS)
					}
				case "time":
					if i+1 < len(parts) {
						fmt.Sscanf(parts[i+1], "%d", &res.TimeMS)
					}
				case "pv":
					if i+1 < len(parts) {
						res.PV = append([]string(nil), parts[i+1:]...)
					}
					break Fields
				}
			}
		} else if strings.HasPrefix(line, "bestmove") {
			parts := strings.Fields(line)
			if len(parts) > 1 && parts[1] != "(none)" && parts[1] != "0000" {
				res.BestMove = parts[1]
			}
		}
	}

	return res
}

// Close stops the engine process. Calling it more than once is a no-op.
func (e *UCIEngine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	_ = e.sendCommand("quit")
	_ = e.pipe.Close()
	err := e.cmd.Wait()
	e.log.Debug().Err(err).Msg("engine stopped")
	return err
}
