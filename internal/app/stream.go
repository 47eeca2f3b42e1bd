package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/enoturismo/recorridos/api"
	"github.com/enoturismo/recorridos/internal/events"
)

const streamKeepAlive = 30 * time.Second

// StreamRecorridoEvents pushes rename and status changes of the user's
// recorridos as server-sent events until the client leaves or the bus closes.
func (app *Application) StreamRecorridoEvents(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)
	logger := app.contextGetLogger(r)
	rc := http.NewResponseController(w)

	// the stream outlives the server's write timeout
	err := rc.SetWriteDeadline(time.Time{})
	if err != nil {
		logger.Debug("could not clear write deadline", "error", err)
	}

	sub := app.bus.Subscribe(events.TopicRecorridoRenamed, events.TopicRecorridoStatus)
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := rc.Flush(); err != nil {
		app.logError(r, err)
		return
	}

	logger.Info("event stream opened")
	defer logger.Info("event stream closed")

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case e, ok := <-sub.C:
			if !ok {
				return
			}

			if e.UserID != userId {
				continue
			}

			if err := writeEvent(w, toEventMessage(e)); err != nil {
				logger.Warn("failed to write event", "error", err)
				return
			}
		}

		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, msg api.RecorridoEventMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Type, data)
	return err
}

func toEventMessage(e events.Event) api.RecorridoEventMessage {
	msg := api.RecorridoEventMessage{
		Type:        string(e.Topic),
		RecorridoId: e.RecorridoID,
		Name:        e.Name,
	}

	if e.Estado != "" {
		estado := api.RecorridoEstado(e.Estado)
		msg.Estado = &estado
	}

	return msg
}
