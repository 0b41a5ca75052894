package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var follow bool
	var lines int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Tail the daemon's log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			path := a.layout.LogPath()

			if err := printTail(path, lines); err != nil {
				return err
			}
			if !follow {
				return nil
			}
			return followFile(cmd.Context().Done(), path)
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep printing new log lines as they're written")
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of trailing lines to print")
	return cmd
}

func printTail(path string, n int) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("no log file yet")
			return nil
		}
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	var buf []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		buf = append(buf, scanner.Text())
		if len(buf) > n {
			buf = buf[1:]
		}
	}
	for _, line := range buf {
		fmt.Println(line)
	}
	return nil
}

// followFile polls path for new content, the same os.exec-free way the
// rest of this codebase prefers small hand-rolled loops over pulling in a
// dedicated file-tailing library for a single command.
func followFile(done <-chan struct{}, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seeking to end of log file: %w", err)
	}

	reader := bufio.NewReader(f)
	for {
		select {
		case <-done:
			return nil
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			time.Sleep(200 * time.Millisecond)
			continue
		}
		fmt.Print(strings.TrimSuffix(line, "\n") + "\n")
	}
}
