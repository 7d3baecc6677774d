package interfaces

import (
	"context"

	"stock-board/src/models"
)

// IDataExchanger defines the contract for the client-facing server
type IDataExchanger interface {
	// Broadcast pushes a dataset status change to every connected client
	Broadcast(status models.MDatasetStatus)
	Start() error
	Stop(ctx context.Context) error
}
