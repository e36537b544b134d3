package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Umer-siddique/Polling-App-Backend/internal/apperror"
	"github.com/Umer-siddique/Polling-App-Backend/internal/utils"
)

// 公开 ID 长度，对外代替数据库自增主键
const PidLength = 12

// 选项数量上下限
const (
	MinOptions = 2
	MaxOptions = 5
)

// Poll 投票实体
// Options 与 Votes 按下标对齐，长度在任何写路径之后都必须一致
type Poll struct {
	ID                 uint           `gorm:"primaryKey" json:"-"`
	Pid                string         `gorm:"uniqueIndex;size:12;not null" json:"id"`
	Title              string         `gorm:"not null" json:"title"`
	ImageURL           string         `gorm:"not null" json:"imageUrl"`
	Options            pq.StringArray `gorm:"type:text[];not null" json:"options"`
	Votes              pq.Int64Array  `gorm:"type:bigint[];not null" json:"votes"`
	CreatedBy          uint           `gorm:"not null;index" json:"-"`
	User               User           `gorm:"foreignKey:CreatedBy" json:"createdBy"`
	OriginalImageSize  int64          `json:"originalImageSize"`
	OptimizedImageSize int64          `json:"optimizedImageSize"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// Validate 实体级校验，所有写路径共用
func (p *Poll) Validate() error {
	ve := &apperror.ValidationError{}

	if strings.TrimSpace(p.Title) == "" {
		ve.Add("title", "A poll must have a title.")
	}
	if p.ImageURL == "" {
		ve.Add("imageUrl", "A poll must have an image.")
	}
	if len(p.Options) < MinOptions || len(p.Options) > MaxOptions {
		ve.Add("options", "A poll must have between 2 and 5 options.")
	}
	if len(p.Votes) != len(p.Options) {
		ve.Add("votes", "Votes array length must match the options array length.")
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

// BeforeSave 在 create 和整体更新前执行
// 选项数量变化时把计数重置为等长的零数组（有损策略，见 DESIGN.md），
// 保证 votes/options 等长不变式在任何 gorm 写路径上成立
func (p *Poll) BeforeSave(tx *gorm.DB) error {
	if len(p.Votes) != len(p.Options) {
		p.Votes = make(pq.Int64Array, len(p.Options))
	}
	return p.Validate()
}

// BeforeCreate 生成公开 ID
func (p *Poll) BeforeCreate(tx *gorm.DB) error {
	if p.Pid == "" {
		p.Pid = utils.RandStringBytesMaskImpr(PidLength)
	}
	return nil
}
