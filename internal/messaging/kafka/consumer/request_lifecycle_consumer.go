package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fzn99-cell/RHConnect/internal/events"
	"github.com/fzn99-cell/RHConnect/internal/mailer"
)

// ConsumeRequestLifecycle turns request lifecycle events into emails.
// Unsendable messages are logged and committed so one bad address never
// wedges the partition.
func ConsumeRequestLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	sender mailer.Sender,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.request_lifecycle")
	log.Info("request lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("request lifecycle consumer stopped")
				return
			}
			log.Error("fetch request lifecycle message failed", zap.Error(err))
			continue
		}

		eventType := headerValue(msg, "event_type")
		switch eventType {
		case events.EventTypeRequestSubmitted:
			handleSubmitted(msg.Value, sender, log)
		case events.EventTypeRequestReviewed:
			handleReviewed(msg.Value, sender, log)
		default:
			log.Warn("unknown request lifecycle event type", zap.String("event_type", eventType))
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit request lifecycle message failed", zap.Error(err))
		}
	}
}

func handleSubmitted(payload []byte, sender mailer.Sender, log *zap.Logger) {
	var event events.RequestSubmittedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Error("decode request_submitted event failed", zap.Error(err))
		return
	}

	subject := "Nouvelle demande soumise"
	for _, recipient := range event.Recipients {
		body := fmt.Sprintf(
			"Bonjour %s,\n\nUne nouvelle demande (%s) a été soumise par un utilisateur.\n\nDescription: %s\n\nMerci.",
			recipient.Name, event.RequestType, event.Description,
		)
		if err := sender.Send(mailer.Message{
			To:      recipient.Email,
			ToName:  recipient.Name,
			Subject: subject,
			Body:    body,
		}); err != nil {
			log.Error("send request_submitted email failed",
				zap.String("request_id", event.RequestID),
				zap.String("to", recipient.Email),
				zap.Error(err),
			)
		}
	}
}

func handleReviewed(payload []byte, sender mailer.Sender, log *zap.Logger) {
	var event events.RequestReviewedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Error("decode request_reviewed event failed", zap.Error(err))
		return
	}

	comment := ""
	if event.Comment != nil {
		comment = *event.Comment
	}
	body := fmt.Sprintf(
		"Bonjour %s,\n\nDemande traitée avec succès\n\nDétails de la demande :\n%s\n\nMerci de votre patience.",
		event.Recipient.Name, comment,
	)

	if err := sender.Send(mailer.Message{
		To:      event.Recipient.Email,
		ToName:  event.Recipient.Name,
		Subject: "Traitement de votre demande - Demande traitée",
		Body:    body,
	}); err != nil {
		log.Error("send request_reviewed email failed",
			zap.String("request_id", event.RequestID),
			zap.String("to", event.Recipient.Email),
			zap.Error(err),
		)
	}
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
