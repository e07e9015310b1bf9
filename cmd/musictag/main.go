package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lovetheticx/musictag/internal/artwork"
	"github.com/lovetheticx/musictag/internal/config"
	"github.com/lovetheticx/musictag/internal/model"
	"github.com/lovetheticx/musictag/internal/tagedit"
)

func main() {
	var (
		configFlag  = flag.String("config", "", "Path to config file")
		verboseFlag = flag.Bool("verbose", false, "Show debug output")
	)

	flag.Parse()

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if *verboseFlag || settings.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	args := flag.Args()
	if len(args) < 2 {
		usage()
		os.Exit(1)
	}

	editor := tagedit.NewEditor(artwork.NewNormalizer(settings.CoverMaxSize, settings.CoverJPEGQuality))

	var err error
	switch args[0] {
	case "show":
		err = runShow(editor, args[1])
	case "set":
		if len(args) != 4 {
			usage()
			os.Exit(1)
		}
		err = runSet(editor, args[1], args[2], args[3])
	case "cover":
		if len(args) != 3 {
			usage()
			os.Exit(1)
		}
		err = runCover(editor, args[1], args[2])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("musictag - edit metadata in MP3, FLAC, M4A, OGG and OPUS files")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  musictag show <file>")
	fmt.Println("  musictag set <file> <title|artist|album|year|genre> <value>")
	fmt.Println("  musictag cover <file> <image>")
	fmt.Println()
	flag.PrintDefaults()
}

func runShow(editor *tagedit.Editor, path string) error {
	tags, err := editor.ReadTags(path)
	if err != nil {
		return err
	}

	fmt.Println("Current Tags:")
	fmt.Println()
	for _, field := range model.Fields() {
		fmt.Printf("  %-7s %s\n", field.String()+":", tags.Get(field).Display())
	}
	coverStatus := "Not set"
	if tags.HasCover {
		coverStatus = "Set"
	}
	fmt.Printf("  %-7s %s\n", "cover:", coverStatus)
	return nil
}

func runSet(editor *tagedit.Editor, path, fieldName, value string) error {
	field, ok := model.ParseField(fieldName)
	if !ok {
		return fmt.Errorf("unknown field %q (want title, artist, album, year or genre)", fieldName)
	}

	if err := editor.WriteTag(path, field, value); err != nil {
		return err
	}
	fmt.Printf("%s updated\n", field)
	return nil
}

func runCover(editor *tagedit.Editor, path, imagePath string) error {
	imageBytes, err := os.ReadFile(imagePath)
	if err != nil {
		return err
	}

	if err := editor.WriteCover(path, imageBytes); err != nil {
		return err
	}

	tags, err := editor.ReadTags(path)
	if err == nil && tags.HasCover {
		fmt.Println("Album cover updated")
	} else {
		fmt.Println("Cover written, but could not confirm")
	}
	return nil
}
