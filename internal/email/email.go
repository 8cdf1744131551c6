package email

import (
	"context"
	"fmt"

	"github.com/mlevasseur/stationnement/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.SessionEvent) error {
	fmt.Printf("notify vehicle %d: %s session %s in %s, cost %d cents\n", event.VehicleID, event.Type, event.SessionID, event.ZoneID, event.CostCents)
	return nil
}
