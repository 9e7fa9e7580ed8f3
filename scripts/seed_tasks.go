// Bulk-Import von Aufgaben aus einer Datei in die Datenbank.
//
// Der reguläre Importweg läuft über die API (/api/tasks/importexport bzw.
// /api/tasks/importtxt). Dieses Skript ist für die Erstbefüllung oder für
// große Alt-Datenbestände gedacht, bei denen kein laufender Server nötig ist.
//
// Verwendung: go run scripts/seed_tasks.go <datei.json|datei.txt>

package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"fibu_trainer_backend/internal/config"
	"fibu_trainer_backend/internal/repository"
	"fibu_trainer_backend/internal/service"
	"fibu_trainer_backend/pkg/database"
	"fibu_trainer_backend/pkg/logger"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("Verwendung: %s <datei.json|datei.txt>", os.Args[0])
	}
	path := os.Args[1]

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Konfiguration konnte nicht geladen werden: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Datenbankverbindung fehlgeschlagen: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration fehlgeschlagen: %v", err)
	}

	taskRepo := repository.NewTaskRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	taskService := service.NewTaskService(taskRepo, counterRepo, service.NewTaskPolicy(), nil, logger.Log)
	storage := service.NewStorageService(cfg.Storage, logger.Log)
	importService := service.NewImportService(taskRepo, counterRepo, taskService, storage, logger.Log)

	ctx := context.Background()
	var result *service.ImportResult

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Datei konnte nicht gelesen werden: %v", err)
		}
		var batch []service.ImportTaskInput
		if err := json.Unmarshal(raw, &batch); err != nil {
			log.Fatalf("Ungültiges JSON: %v", err)
		}
		result, err = importService.ImportJSON(ctx, batch, raw)
		if err != nil {
			log.Fatalf("Import fehlgeschlagen: %v", err)
		}
	case ".txt":
		f, err := os.Open(path)
		if err != nil {
			log.Fatalf("Datei konnte nicht geöffnet werden: %v", err)
		}
		defer f.Close()
		result, err = importService.ImportText(ctx, f, filepath.Base(path))
		if err != nil {
			log.Fatalf("Import fehlgeschlagen: %v", err)
		}
	default:
		log.Fatalf("Nicht unterstütztes Format %q, erwartet .json oder .txt", filepath.Ext(path))
	}

	log.Printf("Fertig: %d neue Tasks, %d insgesamt", result.InsertedCount, len(result.Tasks))
}
