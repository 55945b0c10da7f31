package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportSession appends a finished game's summary to a text file.
func ExportSession(s *Session, filename string) error {
	snap := s.State()
	guesses := s.Guesses()
	elapsed := s.Elapsed()

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Shipgraph Game - Session %s\n", snap.Code))
	sb.WriteString(fmt.Sprintf("Finished: %s\n", time.Now().Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n")
	sb.WriteString(fmt.Sprintf("Puzzle: %s -> %s\n", snap.Start, snap.Target))
	sb.WriteString(fmt.Sprintf("Result: %s after %d/%d attempts in %s\n",
		snap.Status, snap.Attempts, snap.MaxAttempts, elapsed.Round(time.Second)))
	if snap.Status == StatusWon {
		sb.WriteString(fmt.Sprintf("Score: %d\n", snap.Score))
	}

	if len(guesses) > 0 {
		sb.WriteString("\nGuesses:\n")
		for i, guess := range guesses {
			sb.WriteString(fmt.Sprintf("%2d. %s (%s)\n", i+1, guess.Name, guess.Outcome))
		}
	}

	if len(snap.Revealed) > 0 {
		sb.WriteString(fmt.Sprintf("\nRevealed people: %s\n", strings.Join(snap.Revealed, ", ")))
	}
	if len(snap.Edges) > 0 {
		sb.WriteString("Revealed connections:\n")
		for _, e := range snap.Edges {
			sb.WriteString(fmt.Sprintf("- %s - %s\n", e.A, e.B))
		}
	}
	sb.WriteString("\n")

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}
