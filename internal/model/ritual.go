package model

// Ritual 仪式目录条目，固定参考数据，服务启动时播种
// swagger:model Ritual
type Ritual struct {
	BaseModel
	Name            string   `gorm:"size:100;not null" json:"name"`
	Description     string   `gorm:"size:255" json:"description"`
	Details         string   `gorm:"type:text" json:"details"`
	Color           string   `gorm:"size:20" json:"color"`
	Icon            string   `gorm:"size:20" json:"icon"`
	DurationMinutes int      `gorm:"not null" json:"durationMinutes"` // 建议练习时长（倒计时目标）
	HowToPractice   []string `gorm:"type:json;serializer:json" json:"howToPractice"`
	Benefits        []string `gorm:"type:json;serializer:json" json:"benefits"`
}

func (Ritual) TableName() string {
	return "rituals"
}
