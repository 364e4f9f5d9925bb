// Package dashboard loads the statistics shown on the console dashboard.
package dashboard

import (
	"context"
	"log"
	"net/url"

	"github.com/buynlarge/console/internal/apiclient"
	model "github.com/buynlarge/console/internal/model/dashboard"
	"github.com/buynlarge/console/internal/service/notify"
)

const statsPath = "/api/dashboard/stats/"

const loadFailedDescription = "No se pudieron cargar las estadísticas desde el servidor. Se muestran datos de ejemplo."

// Service fetches dashboard statistics.
type Service struct {
	api      *apiclient.Client
	notifier notify.Notifier
}

// NewService returns a Service using api.
func NewService(api *apiclient.Client, notifier notify.Notifier) *Service {
	return &Service{api: api, notifier: notifier}
}

// Load returns the stats for frame. When the endpoint fails the example data
// is returned and a warning notification is raised; the bool reports whether
// the data came from the server.
func (s *Service) Load(ctx context.Context, frame model.TimeFrame) (model.Stats, bool) {
	frame = model.ParseTimeFrame(string(frame))
	path := statsPath + "?" + url.Values{"period": {string(frame)}}.Encode()

	var stats model.Stats
	if err := s.api.GetJSON(ctx, path, &stats); err != nil {
		log.Printf("[dashboard] load stats period=%s failed, showing examples: %v", frame, err)
		if s.notifier != nil {
			s.notifier.Notify(notify.Notification{
				Level:       notify.LevelWarning,
				Title:       "Dashboard",
				Description: loadFailedDescription,
			})
		}
		return model.Examples(frame), false
	}

	if stats.Period == "" {
		stats.Period = frame
	}
	return stats, true
}
