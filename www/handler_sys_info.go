package www

import (
	"log/slog"
	"net/http"
	"time"
)

type SysInfo struct {
	Version   string    `json:"version"`
	Zone      string    `json:"zone"`
	StartedAt time.Time `json:"started_at"`
}

func NewSysInfoHandler(logger *slog.Logger, sysInfo SysInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJson(logger, w, struct {
			SysInfo
			Uptime string `json:"uptime"`
		}{
			SysInfo: sysInfo,
			Uptime:  time.Since(sysInfo.StartedAt).Round(time.Second).String(),
		})
	}
}
