package repository

import (
	"context"
	"time"

	"cms-admin/internal/models"
)

type CreateComplaintInput struct {
	Source            string
	Channel           string
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	CustomerReference string
	Category          string
	Subcategory       string
	Priority          string
	Status            string
	Summary           string
	Description       string
	DueDate           *time.Time
	AssignedTo        string // empty = unassigned
	CreatedBy         string
	InitialNote       string
}

type ComplaintRepository interface {
	List(ctx context.Context, f ComplaintFilter, currentUserID string) ([]models.Complaint, error)
	Get(ctx context.Context, id string) (*models.Complaint, error)
	Create(ctx context.Context, in CreateComplaintInput) (*models.Complaint, error)
	UpdateStatus(ctx context.Context, id, status, comment, actorID string) (*models.Complaint, error)
	Assign(ctx context.Context, id, assigneeID, note, actorID string) (*models.Complaint, error)
	AddNote(ctx context.Context, id, text string, internalOnly bool, actorID string) (*models.ComplaintUpdate, error)
	Metrics(ctx context.Context, currentUserID string) (models.ComplaintMetrics, error)
	Breakdown(ctx context.Context, dimension string) ([]models.BreakdownRow, error)
}

type UserRepository interface {
	Create(ctx context.Context, email, name, role, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, string /*passwordHash*/, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, q, role string, active *bool, limit, offset int) ([]models.User, int, error)
	UpdateRole(ctx context.Context, id, role string) (*models.User, error)
	SetActive(ctx context.Context, id string, active bool) (*models.User, error)
	UpdateBasic(ctx context.Context, id, name string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

type PageRepository interface {
	List(ctx context.Context, q, status string, limit, offset int) ([]models.Page, int, error)
	Get(ctx context.Context, id string) (*models.Page, error)
	Create(ctx context.Context, p *models.Page) error
	Update(ctx context.Context, p *models.Page) error
	Delete(ctx context.Context, id string) error
}

type PostRepository interface {
	List(ctx context.Context, q, status, categoryID string, limit, offset int) ([]models.Post, int, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, p *models.Post) error
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id string) error
}

type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id string) error
}
