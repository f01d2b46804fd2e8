package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrchestratorGoal is the most-recent non-terminal user intent for a
// project. Only one row per project should ever be non-terminal at a
// time; the store enforces this by marking the prior goal terminal
// before inserting a new one.
type OrchestratorGoal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Intent    string    `gorm:"column:intent;not null" json:"intent"`
	Status    string    `gorm:"column:status;not null;index" json:"status"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (OrchestratorGoal) TableName() string { return "orchestrator_goal" }

func (g *OrchestratorGoal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// OrchestratorMessage is one turn of the conversation log. Bounded
// history (≤20 turns) is enforced by the repo query, not by deleting
// rows — the full log is retained for audit, only the window fed to
// the LLM is truncated.
type OrchestratorMessage struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	Role      string         `gorm:"column:role;not null" json:"role"`
	Content   string         `gorm:"column:content;not null" json:"content"`
	Payload   datatypes.JSON `gorm:"column:payload" json:"payload,omitempty"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (OrchestratorMessage) TableName() string { return "orchestrator_message" }

func (m *OrchestratorMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
