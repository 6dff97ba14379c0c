package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teaflash/teaflash/internal"
	"github.com/teaflash/teaflash/internal/session"
	"github.com/teaflash/teaflash/internal/watcher"
)

var (
	flagDevice    string
	flagBaud      int
	flagFlashCmd  string
	flagWatchPath string
	flagTimestamp bool
	flagEscapes   bool
	flagMock      bool
)

var rootCmd = &cobra.Command{
	Use:   "teaflash",
	Short: "serial monitor with auto-flash on file change",
	Long: `Teaflash is an interactive serial monitor. It opens a serial device,
shows the traffic in a scrollable log and lets you send commands with a
persistent history. Pointed at a firmware binary and a flash command it
watches the file, disconnects, reflashes and reconnects on every change.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := internal.LoadConfig()
		if err != nil {
			return err
		}

		// flags win over the config file, but only when actually given
		if cmd.Flags().Changed("device") {
			cfg.Device = flagDevice
		}
		if cmd.Flags().Changed("baud") {
			cfg.Baud = flagBaud
		}
		if cmd.Flags().Changed("flash-cmd") {
			cfg.FlashCmd = flagFlashCmd
		}
		if cmd.Flags().Changed("watch-path") {
			cfg.WatchPath = flagWatchPath
		}
		if cmd.Flags().Changed("timestamp") {
			cfg.Timestamp = flagTimestamp
		}
		if cmd.Flags().Changed("show-escapes") {
			cfg.ShowEscapes = flagEscapes
		}

		baud, err := session.ParseBaud(cfg.Baud)
		if err != nil {
			return err
		}

		var flashArgv []string
		if cfg.FlashCmd != "" {
			flashArgv = strings.Fields(cfg.FlashCmd)
			if !argvHasToken(flashArgv) {
				return fmt.Errorf("flash command must contain the %s placeholder", watcher.BinToken)
			}
		}
		if cfg.WatchPath != "" && len(flashArgv) == 0 {
			return fmt.Errorf("--watch-path needs a flash command, see --flash-cmd")
		}

		opts := internal.Options{
			Device:      cfg.Device,
			Baud:        baud,
			FlashCmd:    flashArgv,
			WatchPath:   cfg.WatchPath,
			Timestamp:   cfg.Timestamp,
			ShowEscapes: cfg.ShowEscapes,
			LogLimit:    cfg.LogLimit,
			History:     cfg.History,
			Mock:        flagMock,
		}
		return internal.Run(opts, cfg)
	},
}

func argvHasToken(argv []string) bool {
	for _, arg := range argv {
		if strings.Contains(arg, watcher.BinToken) {
			return true
		}
	}
	return false
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flagDevice, "device", "d", "", "serial device to open at startup")
	f.IntVarP(&flagBaud, "baud", "b", 115200, "baud rate")
	f.StringVar(&flagFlashCmd, "flash-cmd", "", "flash command, "+watcher.BinToken+" is replaced by the watched file")
	f.StringVar(&flagWatchPath, "watch-path", "", "file to watch, arms auto-flash together with --flash-cmd")
	f.BoolVarP(&flagTimestamp, "timestamp", "t", false, "prefix log lines with a timestamp")
	f.BoolVar(&flagEscapes, "show-escapes", false, "show control characters as escape sequences")
	f.BoolVar(&flagMock, "mock", false, "connect to a built-in mock device")
	_ = f.MarkHidden("mock")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
