// Package relay drives one end-to-end run: scan the inbox, fan each donation
// out to the configured sinks, and mark a message read once every configured
// sink took it.
package relay

import (
	"context"
	"fmt"
	"log"

	"github.com/ymkw/kifulog/internal/donation"
	"github.com/ymkw/kifulog/internal/scanner"
)

// Scanner produces the parsed donations of one inbox scan.
type Scanner interface {
	Scan(ctx context.Context) ([]scanner.Found, error)
}

// Notifier is the chat webhook sink.
type Notifier interface {
	Notify(ctx context.Context, date string, amount int, frequency string) error
}

// Recorder is the spreadsheet sink.
type Recorder interface {
	Record(ctx context.Context, d donation.Details) error
}

// ReadMarker marks a fully processed message read.
type ReadMarker interface {
	MarkRead(ctx context.Context, msgID string) error
}

// New wires a run. A nil notifier or recorder means that sink is not
// configured and is skipped.
func New(scan Scanner, notifier Notifier, recorder Recorder, marker ReadMarker) *Relay {
	return &Relay{
		scan:     scan,
		notifier: notifier,
		recorder: recorder,
		marker:   marker,
	}
}

type Relay struct {
	scan     Scanner
	notifier Notifier
	recorder Recorder
	marker   ReadMarker
}

// Run processes every unread donation notification once. Failures are logged,
// never returned: a failed message simply stays unread for the next run.
func (r *Relay) Run(ctx context.Context) {
	if r.notifier == nil {
		log.Println("WEBHOOK_URL not set, nothing to do")
		return
	}

	items, err := r.scan.Scan(ctx)
	if err != nil {
		log.Println(fmt.Errorf("scan failed: %w", err))
		return
	}

	for _, item := range items {
		r.process(ctx, item)
	}
}

// process pushes one donation to the sinks in order. A webhook post is not
// rolled back when the sheet append fails; the message stays unread, so the
// next run may notify again but never double-records within a run.
func (r *Relay) process(ctx context.Context, item scanner.Found) {
	d := item.Donation

	if err := r.notifier.Notify(ctx, d.Date, d.Amount, d.Frequency); err != nil {
		log.Printf("notify failed for message %s, leaving unread: %v", item.MsgID, err)
		return
	}

	if r.recorder != nil {
		if err := r.recorder.Record(ctx, d); err != nil {
			log.Printf("record failed for message %s, leaving unread: %v", item.MsgID, err)
			return
		}
	}

	if err := r.marker.MarkRead(ctx, item.MsgID); err != nil {
		log.Printf("MarkRead failed for message %s: %v", item.MsgID, err)
	}
}
