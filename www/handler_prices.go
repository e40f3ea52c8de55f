package www

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/wnelis/entsoe-qdap-go/database"
)

type priceResponse struct {
	Time     time.Time `json:"time"`
	Price    float64   `json:"price"`
	Currency string    `json:"currency"`
	Unit     string    `json:"unit"`
}

// NewPricesHandler serves the stored price curve. A POST triggers a fresh
// fetch through the price task.
func NewPricesHandler(logger *slog.Logger, db *database.Database, task func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			from := time.Now().Add(-time.Duration(intOrDefault(r.URL, "hours", 24)) * time.Hour)

			rows, err := db.GetDayAheadPricesFrom(r.Context(), from)
			if err != nil {
				logger.Error("handling prices request", slog.Any("error", err))
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

			prices := make([]priceResponse, 0, len(rows))
			for _, row := range rows {
				prices = append(prices, priceResponse{
					Time:     row.Time,
					Price:    row.Price,
					Currency: row.Currency,
					Unit:     row.Unit,
				})
			}

			writeJson(logger, w, prices)

		case http.MethodPost:
			// 202 means accepted, not done: the fetch can take a
			// full request timeout, so it runs in the background.
			go task()
			w.WriteHeader(http.StatusAccepted)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}
