package www

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/wnelis/entsoe-qdap-go/database"
	"github.com/wnelis/entsoe-qdap-go/logging"
)

type logEntryResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Attrs     string    `json:"attrs,omitempty"`
}

func NewLogHandler(logger *slog.Logger, db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		level := r.URL.Query().Get("level")
		minLvl := logging.LevelFromString(&level)
		page := intOrDefault(r.URL, "page", 1)
		pageSize := intOrDefault(r.URL, "page_size", 50)

		rows, err := db.GetLogEntries(r.Context(), minLvl, page, pageSize)
		if err != nil {
			logger.Error("handling log request", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		entries := make([]logEntryResponse, 0, len(rows))
		for _, row := range rows {
			entries = append(entries, logEntryResponse{
				Timestamp: row.Timestamp,
				Level:     slog.Level(row.Level).String(),
				Message:   row.Message,
				Attrs:     row.Attrs,
			})
		}

		writeJson(logger, w, entries)
	}
}
