package cmd

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/secops/internal/app"
	"github.com/zhubert/secops/internal/buffer"
	"github.com/zhubert/secops/internal/logger"
	"github.com/zhubert/secops/internal/notification"
)

var (
	panelTarget string
	panelWatch  bool
)

var panelCmd = &cobra.Command{
	Use:   "panel FILE",
	Short: "Open a file in an interactive panel and scan it on demand",
	Args:  cobra.ExactArgs(1),
	RunE:  runPanel,
}

func init() {
	panelCmd.Flags().StringVar(&panelTarget, "to", "", "Destination: threads or clipboard (default from config)")
	panelCmd.Flags().BoolVar(&panelWatch, "watch", true, "Reload the file when it changes on disk")
	rootCmd.AddCommand(panelCmd)
}

func runPanel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	sink, err := newSink(panelTarget, cfg)
	if err != nil {
		return err
	}

	f, err := buffer.Open(args[0])
	if err != nil {
		return err
	}

	m := app.New(f.Path(), f, sink,
		app.WithNotifier(&notification.Desktop{Enabled: cfg.GetNotificationsEnabled}),
		app.WithPreviewStyle(previewStyle(cfg)),
	)
	defer m.Close()

	p := tea.NewProgram(m)

	if panelWatch {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			err := buffer.Watch(ctx, f.Path(), buffer.DefaultDebounce, func(reloaded *buffer.File) {
				p.Send(app.BufferReloadedMsg{Source: reloaded})
			})
			if err != nil {
				logger.Warn("Panel: file watch stopped: %v", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running panel: %w", err)
	}
	return nil
}
