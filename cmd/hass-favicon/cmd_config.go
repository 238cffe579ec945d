package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/Snuffy2/hass-favicon/internal/config"
	"github.com/Snuffy2/hass-favicon/internal/ui"
)

var configPath string

func init() {
	configCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "path to config file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and modify hass-favicon configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		fmt.Println(ui.Cyan.Render("Service:"))
		fmt.Println(ui.Dim.Render("  Bind:      ") + ui.White.Render(fmt.Sprintf("%s:%d", cfg.Service.BindAddress, cfg.Service.Port)))
		fmt.Println(ui.Dim.Render("  Auth:      ") + ui.White.Render(cfg.Auth.Mode))
		fmt.Println()
		fmt.Println(ui.Cyan.Render("Paths:"))
		fmt.Println(ui.Dim.Render("  WWW:       ") + ui.White.Render(cfg.Paths.WWWDir))
		fmt.Println(ui.Dim.Render("  Data:      ") + ui.White.Render(cfg.Paths.DataDir))
		fmt.Println()
		fmt.Println(ui.Cyan.Render("Branding:"))
		fmt.Println(ui.Dim.Render("  Title:     ") + ui.White.Render(orStock(cfg.Branding.Title)))
		fmt.Println(ui.Dim.Render("  Icons:     ") + ui.White.Render(orStock(cfg.Branding.IconPath)))
		fmt.Println(ui.Dim.Render("  Color:     ") + ui.White.Render(orStock(cfg.Branding.LaunchIconColor)))
		fmt.Println()
		fmt.Println(ui.Dim.Render("Config file: " + configPath))

		return nil
	},
}

func orStock(s string) string {
	if s == "" {
		return "(stock)"
	}
	return s
}

// initAnswers collects the interactive form values. Numeric fields are
// strings because huh.Input binds to *string.
type initAnswers struct {
	Title           string
	IconPath        string
	RStr            string
	GStr            string
	BStr            string
	PortStr         string
	BindAddress     string
	AuthMode        string
	Password        string
	PasswordConfirm string
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively create a configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		answers := initAnswers{
			Title:       config.DefaultTitle,
			IconPath:    config.DefaultIconPath,
			RStr:        "24",
			GStr:        "188",
			BStr:        "242",
			PortStr:     fmt.Sprintf("%d", config.DefaultPort),
			BindAddress: config.DefaultBindAddress,
			AuthMode:    config.AuthModeNone,
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewNote().
					Title("hass-favicon Setup").
					Description("Configure the dashboard branding service.\nIcon files go under the www directory and are served at "+config.LocalPrefix+"."),
				huh.NewInput().
					Title("Dashboard Title").
					Value(&answers.Title),
				huh.NewInput().
					Title("Icon Folder").
					Description("Public path of the folder holding favicon.ico, favicon-apple-*, and favicon-<W>x<H>.* files.").
					Value(&answers.IconPath).
					Validate(func(s string) error {
						if !strings.HasPrefix(s, config.LocalPrefix) {
							return fmt.Errorf("must start with %s", config.LocalPrefix)
						}
						return nil
					}),
			),
			huh.NewGroup(
				huh.NewNote().
					Title("Launch Icon Color").
					Description("RGB accent color applied to the mask icon and the logo."),
				huh.NewInput().
					Title("Red (0-255)").
					Value(&answers.RStr).
					Validate(validateChannel),
				huh.NewInput().
					Title("Green (0-255)").
					Value(&answers.GStr).
					Validate(validateChannel),
				huh.NewInput().
					Title("Blue (0-255)").
					Value(&answers.BStr).
					Validate(validateChannel),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Bind Address").
					Value(&answers.BindAddress).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("bind address cannot be empty")
						}
						return nil
					}),
				huh.NewInput().
					Title("Port").
					Value(&answers.PortStr).
					Validate(func(s string) error {
						p, err := strconv.Atoi(s)
						if err != nil || p < 1 || p > 65535 {
							return fmt.Errorf("port must be between 1 and 65535")
						}
						return nil
					}),
				huh.NewSelect[string]().
					Title("Authentication Mode").
					Options(
						huh.NewOption("None", config.AuthModeNone),
						huh.NewOption("Password", config.AuthModePassword),
					).
					Value(&answers.AuthMode),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&answers.Password).
					Validate(func(s string) error {
						if len(s) < 8 {
							return fmt.Errorf("password must be at least 8 characters")
						}
						return nil
					}),
				huh.NewInput().
					Title("Confirm Password").
					EchoMode(huh.EchoModePassword).
					Value(&answers.PasswordConfirm).
					Validate(func(s string) error {
						if s != answers.Password {
							return fmt.Errorf("passwords do not match")
						}
						return nil
					}),
			).WithHideFunc(func() bool { return answers.AuthMode != config.AuthModePassword }),
		).WithTheme(huh.ThemeCatppuccin())

		if err := form.Run(); err != nil {
			return err
		}

		cfg := config.Default()
		cfg.Service.BindAddress = answers.BindAddress
		cfg.Service.Port, _ = strconv.Atoi(answers.PortStr)
		cfg.Branding.Title = answers.Title
		cfg.Branding.IconPath = answers.IconPath
		cfg.Branding.LaunchIconColor = ui.RGBToHex([3]uint8{
			parseChannel(answers.RStr),
			parseChannel(answers.GStr),
			parseChannel(answers.BStr),
		})
		cfg.Auth.Mode = answers.AuthMode

		if answers.AuthMode == config.AuthModePassword {
			hash, err := bcrypt.GenerateFromPassword([]byte(answers.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hashing password: %w", err)
			}
			cfg.Auth.PasswordHash = string(hash)
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if err := cfg.Save(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Println(ui.Green.Render("✓") + " Wrote configuration to " + ui.White.Render(configPath))
		fmt.Println(ui.Dim.Render("  Start the service with: hass-favicon serve --config " + configPath))
		return nil
	},
}

func validateChannel(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 255 {
		return fmt.Errorf("must be an integer between 0 and 255")
	}
	return nil
}

func parseChannel(s string) uint8 {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return uint8(n)
}
