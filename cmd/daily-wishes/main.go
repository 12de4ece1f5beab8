package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jsg-federation/memberbook/internal/common"
	"github.com/jsg-federation/memberbook/internal/entity"
	"github.com/jsg-federation/memberbook/internal/greeting"
	"github.com/jsg-federation/memberbook/internal/sendlog"
	"github.com/jsg-federation/memberbook/internal/sheet"
	"github.com/jsg-federation/memberbook/internal/wish"
	"github.com/jsg-federation/memberbook/internal/whatsapp"
)

func main() {
	var (
		dryRun       = flag.Bool("dry-run", false, "generate images but do not send messages")
		dateStr      = flag.String("date", "", "run for this date instead of today (YYYY-MM-DD)")
		sheetPath    = flag.String("sheet", "", "workbook path (default from SHEET_PATH)")
		captionsPath = flag.String("captions", "", "caption templates YAML (defaults compiled in)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()
	if *sheetPath == "" {
		*sheetPath = cfg.Sheet.Path
	}

	today := time.Now()
	if *dateStr != "" {
		parsed, err := time.Parse("2006-01-02", *dateStr)
		if err != nil {
			logger.Error("invalid --date, use YYYY-MM-DD", "value", *dateStr, "error", err)
			os.Exit(2)
		}
		today = parsed
	}
	wishDate := today.Format("2006-01-02")

	captions := greeting.DefaultCaptions()
	if *captionsPath != "" {
		var err error
		captions, err = greeting.LoadCaptions(*captionsPath)
		if err != nil {
			logger.Error("failed to load captions", "path", *captionsPath, "error", err)
			os.Exit(1)
		}
	}

	var client *whatsapp.Client
	if !*dryRun {
		if err := cfg.ValidateMessaging(); err != nil {
			logger.Error("messaging config invalid", "error", err)
			os.Exit(1)
		}
		var err error
		client, err = whatsapp.NewClient(whatsapp.Config{
			Token:         cfg.WhatsApp.Token,
			PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
			APIVersion:    cfg.WhatsApp.APIVersion,
			Timeout:       cfg.WhatsApp.Timeout,
		}, logger)
		if err != nil {
			logger.Error("failed to create whatsapp client", "error", err)
			os.Exit(1)
		}
	}

	log, err := sendlog.Open(ctx, cfg.Paths.SendLogPath, logger)
	if err != nil {
		logger.Error("failed to open send log", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := log.Close(); cerr != nil {
			logger.Error("failed to close send log", "error", cerr)
		}
	}()

	sheets := sheet.NewClient(*sheetPath, cfg.Sheet.Worksheet, logger)
	rows, err := sheets.GetMembers()
	if err != nil {
		logger.Error("failed to read members", "sheet", *sheetPath, "error", err)
		os.Exit(1)
	}
	members := make([]entity.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, entity.FromRow(row))
	}

	lists := wish.ForDate(members, today)
	logger.Info("wishes due",
		"date", wishDate,
		"birthdays", len(lists.Birthdays),
		"anniversaries", len(lists.Anniversaries),
		"run_id", log.RunID(),
	)

	gen := greeting.NewGenerator(
		cfg.Paths.TemplatesDir, cfg.Paths.PhotosDir, cfg.Paths.OutputDir, cfg.Paths.FontsDir, logger)

	sent, skipped, failed := 0, 0, 0
	process := func(ms []entity.Member, kind greeting.Kind) {
		for i := range ms {
			m := &ms[i]
			if done, err := log.AlreadySent(ctx, m.WhatsappNumber, string(kind), wishDate); err != nil {
				logger.Error("send log lookup failed", "name", m.Name, "error", err)
				failed++
				continue
			} else if done {
				logger.Info("already sent, skipping", "name", m.Name, "kind", kind)
				skipped++
				continue
			}

			out, err := gen.Generate(m, kind)
			if err != nil {
				logger.Error("image generation failed", "name", m.Name, "kind", kind, "error", err)
				failed++
				continue
			}
			caption := captions.Render(kind, m)
			logger.Info("image generated", "name", m.Name, "kind", kind, "path", out)

			if *dryRun {
				logger.Info("dry-run: would send",
					"to", m.WhatsappNumber, "kind", kind, "caption", caption)
				continue
			}

			mediaID, err := client.UploadMedia(ctx, out)
			if err != nil {
				logger.Error("media upload failed", "name", m.Name, "error", err)
				failed++
				continue
			}
			if err := client.SendImage(ctx, m.WhatsappNumber, mediaID, caption); err != nil {
				logger.Error("send failed", "name", m.Name, "to", m.WhatsappNumber, "error", err)
				failed++
				continue
			}
			if err := log.Record(ctx, m, string(kind), wishDate); err != nil {
				logger.Error("send log write failed", "name", m.Name, "error", err)
			}
			logger.Info("wish sent", "name", m.Name, "to", m.WhatsappNumber, "kind", kind)
			sent++
		}
	}

	process(lists.Birthdays, greeting.Birthday)
	process(lists.Anniversaries, greeting.Anniversary)

	fmt.Printf("Daily wishes for %s complete\n", wishDate)
	fmt.Printf("- Birthdays: %d, Anniversaries: %d\n", len(lists.Birthdays), len(lists.Anniversaries))
	fmt.Printf("- Sent: %d, Skipped: %d, Failed: %d\n", sent, skipped, failed)
	if *dryRun {
		fmt.Printf("- Dry-run: no messages were sent\n")
	}
}
