package main

import (
	"context"
	"embed"
	"fmt"
	"image"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fatih/color"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"CineCanvas/api"
	"CineCanvas/canvas"
	"CineCanvas/config"
	"CineCanvas/geocode"
	"CineCanvas/mailchimp"
	"CineCanvas/palette"
	"CineCanvas/poster"
	"CineCanvas/quote"
	"CineCanvas/store"
	"CineCanvas/updater"
)

//go:embed static/*
var staticFiles embed.FS

var APP_VERSION = "0.3.1"

const (
	updateInfoURL   = "https://updates.cinecanvas.app/update_info.json"
	downloadBaseURL = "https://updates.cinecanvas.app/download"
)

var serverInfo = api.ServerInfo{
	Name:    "CineCanvas",
	Version: APP_VERSION,
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "cinecanvas",
		Short: "Poster compositing service",
		Long:  "CineCanvas renders photo posters (image, palette, typography, logos) and serves them over HTTP.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe("")
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the poster HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetString("port")
			return runServe(port)
		},
	}
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (overrides PORT)")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render a poster to a PNG file without starting the server",
		RunE:  runRender,
	}
	renderCmd.Flags().String("title", "", "Poster title (1-16 characters)")
	renderCmd.Flags().String("year", "", "Year shown at the title rule")
	renderCmd.Flags().String("photographer", "", "Photographer credit")
	renderCmd.Flags().String("location", "", "Location text; use \\n to append a coordinates line")
	renderCmd.Flags().String("quote", "", "Quote text")
	renderCmd.Flags().String("image", "", "Path to the source photograph")
	renderCmd.Flags().StringSlice("logo", nil, "Logo image references, left to right")
	renderCmd.Flags().String("quality", string(poster.QualityLow), "Output quality tier: preview, low or high")
	renderCmd.Flags().StringP("out", "o", "poster.png", "Output PNG path")
	_ = renderCmd.MarkFlagRequired("title")

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update cinecanvas to the latest released version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return updater.NewUpdater(APP_VERSION, updateInfoURL, downloadBaseURL).PerformUpdate()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s\n", serverInfo.Name, serverInfo.Version)
		},
	}

	rootCmd.AddCommand(serveCmd, renderCmd, updateCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(portOverride string) error {
	printBanner()

	cfg := config.Load()
	if portOverride != "" {
		cfg.Port = portOverride
	}
	logger := config.NewLogger(cfg.AppEnv)

	fonts, err := canvas.Load(cfg.FontDir)
	if err != nil {
		return fmt.Errorf("load fonts: %w", err)
	}
	renderer := &poster.Renderer{Fonts: fonts, Logos: poster.NewLogoLoader()}
	previewer := &poster.Previewer{Renderer: renderer, Log: logger}

	ac := api.NewApiContext(cfg, logger, serverInfo, renderer, previewer, staticFiles)

	if cfg.MailchimpAPIKey != "" && cfg.MailchimpServerPrefix != "" && cfg.MailchimpAudienceID != "" {
		ac.Mailchimp = mailchimp.New(cfg.MailchimpAPIKey, cfg.MailchimpServerPrefix, cfg.MailchimpAudienceID)
	} else {
		logger.Warn().Msg("Mailchimp credentials not set; /api/v1/subscribe disabled")
	}
	if cfg.GoogleMapsAPIKey != "" {
		ac.Geocode = geocode.New(cfg.GoogleMapsAPIKey)
	} else {
		logger.Warn().Msg("Google Maps API key not set; /api/v1/geocode disabled")
	}
	if cfg.APINinjasKey != "" {
		ac.Quote = quote.New(cfg.APINinjasKey)
	} else {
		logger.Warn().Msg("API Ninjas key not set; /api/v1/quote disabled")
	}

	if st, err := store.Open(cfg.SubscriberDB); err != nil {
		logger.Warn().Err(err).Msg("subscriber store unavailable; duplicates are detected upstream only")
	} else {
		ac.Store = st
		defer st.Close()
	}

	r := mux.NewRouter()
	r.PathPrefix("/static/").Handler(http.StripPrefix("", http.FileServer(http.FS(staticFiles))))
	ac.RegisterRoutes(r)

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		color.Blue("\nclick link to open browser: http://localhost:%s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	title, _ := cmd.Flags().GetString("title")
	year, _ := cmd.Flags().GetString("year")
	photographer, _ := cmd.Flags().GetString("photographer")
	location, _ := cmd.Flags().GetString("location")
	quoteText, _ := cmd.Flags().GetString("quote")
	imagePath, _ := cmd.Flags().GetString("image")
	logos, _ := cmd.Flags().GetStringSlice("logo")
	quality, _ := cmd.Flags().GetString("quality")
	out, _ := cmd.Flags().GetString("out")

	if logos == nil {
		logos = cfg.LogoRefs
	}
	in := poster.Inputs{
		Title:        title,
		Year:         year,
		Photographer: photographer,
		Location:     strings.ReplaceAll(location, `\n`, "\n"),
		Quote:        quoteText,
		LogoRefs:     logos,
	}

	var (
		src image.Image
		pal poster.Palette
	)
	if imagePath != "" {
		img, err := imaging.Open(imagePath)
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}
		src = img
		pal, err = palette.Extract(img)
		if err != nil {
			return fmt.Errorf("extract palette: %w", err)
		}
	}

	fonts, err := canvas.Load(cfg.FontDir)
	if err != nil {
		return fmt.Errorf("load fonts: %w", err)
	}
	renderer := &poster.Renderer{Fonts: fonts, Logos: poster.NewLogoLoader()}

	rendered, err := renderer.Render(cmd.Context(), in, pal, poster.Quality(quality), src)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := imaging.Save(rendered, out); err != nil {
		return fmt.Errorf("save %s: %w", out, err)
	}
	color.Green("Wrote %s", out)
	return nil
}

// printBanner prints a stylized banner to the console.
func printBanner() {
	title := fmt.Sprintf("%s %s", serverInfo.Name, serverInfo.Version)
	color.Cyan(title)
	color.Cyan(strings.Repeat("=", len(title)))
	fmt.Println()
}
