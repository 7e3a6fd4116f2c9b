package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Danny-Dasilva/fake-useragent/cmd/fakeua/styles"
	"github.com/Danny-Dasilva/fake-useragent/internal/useragent"
)

const banner = `
███████╗ █████╗ ██╗  ██╗███████╗    ██╗   ██╗ █████╗
██╔════╝██╔══██╗██║ ██╔╝██╔════╝    ██║   ██║██╔══██╗
█████╗  ███████║█████╔╝ █████╗      ██║   ██║███████║
██╔══╝  ██╔══██║██╔═██╗ ██╔══╝      ██║   ██║██╔══██║
██║     ██║  ██║██║  ██╗███████╗    ╚██████╔╝██║  ██║
╚═╝     ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝     ╚═════╝ ╚═╝  ╚═╝`

func displayStartupBanner(port string, ua *useragent.UserAgent) {
	bannerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Primary).
		MarginBottom(1)

	subtitle := lipgloss.NewStyle().
		Foreground(styles.Secondary).
		Bold(true).
		MarginBottom(1).
		Render("Realistic User Agent Service")

	label := func(s string) string { return styles.MutedStyle.Render(s) }
	cfg := ua.Config()

	info := strings.Join([]string{
		fmt.Sprintf("%s %s • %s • Go %s", label("Runtime:"), runtime.GOOS, runtime.GOARCH, runtime.Version()),
		fmt.Sprintf("%s localhost:%s", label("Listen:"), port),
		fmt.Sprintf("%s %d records, %d accepted", label("Dataset:"), len(ua.Records()), len(ua.Filter(useragent.RandomKey))),
		fmt.Sprintf("%s %s", label("Browsers:"), strings.Join(cfg.Browsers, ", ")),
	}, "\n")

	fmt.Println(bannerStyle.Render(banner))
	fmt.Println(subtitle)
	fmt.Println(styles.InfoBoxStyle().Render(info))

	url := lipgloss.NewStyle().Foreground(styles.Accent).Underline(true).
		Render(fmt.Sprintf("http://localhost:%s/useragent", port))
	fmt.Printf("%s\n%s\n\n", styles.SuccessStyle.Render("✓ Server Ready!"), url)
}
