package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wardstats/platform/pkg/catalog"
	"github.com/wardstats/platform/pkg/common/config"
	"github.com/wardstats/platform/pkg/common/database"
	"github.com/wardstats/platform/pkg/common/logger"
	"github.com/wardstats/platform/pkg/ingestion"
)

func main() {
	dir := flag.String("dir", "", "Directory containing duty-log .xlsx files to import")
	sheetName := flag.String("sheet", "", "Canonical sheet name to read (default from config)")
	catalogPath := flag.String("catalog", "", "Path to the category catalog yaml (default from config)")
	flag.Parse()

	if os.Getenv("LOG_FORMAT") == "" {
		os.Setenv("LOG_FORMAT", "text")
	}
	logger.Init()
	cfg := config.Load()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "You must specify a directory of .xlsx files with -dir")
		os.Exit(2)
	}
	if *sheetName == "" {
		*sheetName = cfg.CanonicalSheetName
	}
	if *catalogPath == "" {
		*catalogPath = cfg.CatalogPath
	}

	cat, err := catalog.Load(*catalogPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load category catalog")
	}

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	repo := ingestion.NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate ingestion tables")
	}

	parser := ingestion.NewWorkbookParser(cat.Professors, *sheetName)
	svc := ingestion.NewService(parser, repo)

	files, err := listWorkbooks(*dir)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to scan import directory")
	}
	if len(files) == 0 {
		fmt.Printf("No .xlsx files found in %s\n", *dir)
		return
	}

	fmt.Printf("Importing %d file(s) from %s...\n", len(files), *dir)

	ctx := context.Background()
	success, failed := 0, 0
	for _, path := range files {
		name := filepath.Base(path)
		result, err := importFile(ctx, svc, path, name)
		if err != nil {
			failed++
			fmt.Printf("  FAIL %s: %v\n", name, err)
			continue
		}
		success++
		fmt.Printf("  OK   %s -> %s\n", name, result.Date)
	}

	fmt.Printf("Done. Success: %d, Failed: %d\n", success, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// importFile stages a copy of the source workbook and ingests it; the
// service removes its staged copy, the original stays untouched.
func importFile(ctx context.Context, svc *ingestion.Service, path, name string) (*ingestion.Result, error) {
	staged, err := stageCopy(path)
	if err != nil {
		return nil, err
	}
	return svc.Ingest(ctx, ingestion.Upload{Path: staged, OriginalName: name})
}

func stageCopy(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "bulkimport-*.xlsx")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

// listWorkbooks returns the sorted .xlsx files directly inside dir,
// skipping Excel lock files ("~$...").
func listWorkbooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".xlsx") || strings.HasPrefix(name, "~$") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}
