package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"rx-scanner/api/internal/prescription"
	"rx-scanner/api/internal/util"
)

func (r *Router) acceptPhoto(msg tgbotapi.Message) {
	cid := msg.Chat.ID
	r.send(cid, "Got the photo, reading the prescription…")

	// Largest preview Telegram offers.
	ph := msg.Photo[len(msg.Photo)-1]
	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: ph.FileID})
	if err != nil {
		slog.Error("telegram GetFile failed", "chat_id", cid, "error", err)
		r.send(cid, "Could not fetch the photo, please try again.")
		return
	}

	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Bot.Token, file.FilePath)
	image, err := r.download(url)
	if err != nil {
		slog.Error("photo download failed", "chat_id", cid, "error", err)
		r.send(cid, "Could not download the photo, please try again.")
		return
	}

	raw, err := r.Engine.ExtractPrescription(context.Background(), image, util.SniffMimeHTTP(image))
	if err != nil {
		slog.Error("model call failed", "chat_id", cid, "engine", r.Engine.Name(), "error", err)
		r.send(cid, "Something went wrong while reading the prescription.")
		return
	}

	medicines := prescription.Normalize(prescription.Decode(util.CleanModelJSON(raw)))
	r.send(cid, FormatMedicines(medicines))
}

func (r *Router) download(url string) ([]byte, error) {
	resp, err := r.httpc.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}

// FormatMedicines renders the normalized list as a readable reply.
func FormatMedicines(meds []prescription.Medicine) string {
	if len(meds) == 0 {
		return "No medicines found on this prescription."
	}
	var b strings.Builder
	b.WriteString("Medicines found:\n")
	for i, m := range meds {
		fmt.Fprintf(&b, "\n%d. %s", i+1, displayName(m.Name))
		if m.Quantity != "" {
			fmt.Fprintf(&b, "\n   dose: %s", m.Quantity)
		}
		if m.Duration != prescription.DefaultDuration {
			fmt.Fprintf(&b, "\n   duration: %d days", m.Duration)
		}
		fmt.Fprintf(&b, "\n   meal: %s", m.Meal)
		if m.Frequency != "" {
			fmt.Fprintf(&b, "\n   frequency: %s", m.Frequency)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(unnamed)"
	}
	return name
}
