// Package banner prints pleb's startup banner, styled with lipgloss the
// way the teacher dresses up its own plain-ASCII logo.
package banner

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Logo is pleb's ASCII logo, printed before the daemon starts watching.
const Logo = `
   ██████╗ ██╗     ███████╗██████╗
   ██╔══██╗██║     ██╔════╝██╔══██╗
   ██████╔╝██║     █████╗  ██████╔╝
   ██╔═══╝ ██║     ██╔══╝  ██╔══██╗
   ██║     ███████╗███████╗██████╔╝
   ╚═╝     ╚══════╝╚══════╝╚═════╝
`

// Tagline is pleb's project tagline.
const Tagline = "One Worktree, One Window, One Issue"

var (
	dim  = lipgloss.NewStyle().Faint(true)
	warn = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Print prints the bare logo and tagline.
func Print() {
	fmt.Print(Logo)
	fmt.Println(dim.Render("   " + Tagline))
	fmt.Println()
}

// StartupBanner prints the logo plus the repository being watched and the
// label driving the pipeline, shown once when `pleb watch` starts.
func StartupBanner(version, repo, readyLabel string) {
	fmt.Print(Logo)
	fmt.Println(dim.Render("   " + Tagline))
	fmt.Println()
	fmt.Printf("   Version:    v%s\n", version)
	fmt.Printf("   Repository: %s\n", repo)
	fmt.Printf("   Watching:   %s\n", readyLabel)
	fmt.Println()
}

// Warn prints a yellow warning line to stdout, for non-fatal issues that
// shouldn't stop the daemon.
func Warn(msg string) {
	fmt.Println(warn.Render("⚠ " + msg))
}
