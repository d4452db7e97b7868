package inputs

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/triage/pkg/pagination"
	"github.com/JaimeStill/triage/pkg/storage"
)

// System defines the public contract for input domain operations. Every operation
// acts on behalf of userID and sees only that user's active inputs.
type System interface {
	Handler() *Handler

	Create(ctx context.Context, userID uuid.UUID, cmd CreateCommand) (*Input, error)
	Find(ctx context.Context, userID, id uuid.UUID) (*Input, error)
	List(ctx context.Context, userID uuid.UUID, order Order) ([]Input, error)
	Update(ctx context.Context, userID, id uuid.UUID, cmd UpdateCommand) (*Input, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (*Input, error)

	Search(
		ctx context.Context,
		userID uuid.UUID,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Input], error)

	Reclassify(ctx context.Context, userID uuid.UUID) (*ReclassifyResult, error)

	Export(ctx context.Context, userID uuid.UUID, order Order) (*ExportResult, error)
	Exports(ctx context.Context, userID uuid.UUID) ([]storage.Object, error)
	Download(ctx context.Context, userID uuid.UUID, name string) (*storage.Blob, error)
}
