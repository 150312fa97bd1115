package model

import (
	"time"
)

// Tier 订阅档位
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
	TierDiamond Tier = "diamond"
)

// 订阅来源。paid 行永远不允许被 trial/group_member 的自动开通覆盖
const (
	ProviderTrial       = "trial"
	ProviderGroupMember = "group_member"
	ProviderPaid        = "paid"
)

// NumbersPerSpin 各档位单次预测返回的号码数
func (t Tier) NumbersPerSpin() int {
	switch t {
	case TierDiamond:
		return 5
	case TierPremium:
		return 3
	default:
		return 1
	}
}

// MaxSpinsPerDay 各档位每日预测次数上限，-1 表示不限
func (t Tier) MaxSpinsPerDay() int {
	switch t {
	case TierDiamond:
		return -1
	case TierPremium:
		return 10
	default:
		return 3
	}
}

// Subscription 用户订阅状态，每用户一条有效记录（user_id 唯一）
type Subscription struct {
	ID        uint64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	UserID    uint64     `gorm:"column:user_id;type:bigint;uniqueIndex;not null;comment:用户ID"`
	Tier      Tier       `gorm:"column:tier;type:varchar(16);not null;comment:档位：free/premium/diamond"`
	Provider  string     `gorm:"column:provider;type:varchar(16);not null;comment:来源：trial/group_member/paid"`
	ExpiresAt *time.Time `gorm:"column:expires_at;type:timestamp;comment:到期时间，空=永不过期"`
	CreatedAt time.Time  `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt time.Time  `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// IsActive 是否仍在有效期内
func (s *Subscription) IsActive(now time.Time) bool {
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}

// TandaGroup 互助会（tanda）基础信息。会务 CRUD 在外部服务，此处仅用于会员资格判定
type TandaGroup struct {
	ID        uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string     `gorm:"column:name;type:varchar(128);not null;comment:互助会名称"`
	DeletedAt *time.Time `gorm:"column:deleted_at;type:timestamp;index;comment:软删除时间"`
	CreatedAt time.Time  `gorm:"column:created_at;type:timestamp;default:now()"`
}

// GroupMember 互助会成员关系
type GroupMember struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	GroupID  uint64 `gorm:"column:group_id;type:bigint;not null;index;comment:互助会ID"`
	UserID   uint64 `gorm:"column:user_id;type:bigint;not null;index;comment:用户ID"`
	IsActive bool   `gorm:"column:is_active;type:boolean;default:true;comment:是否在会"`
}

func (Subscription) TableName() string { return "subscriptions" }
func (TandaGroup) TableName() string   { return "tanda_groups" }
func (GroupMember) TableName() string  { return "group_members" }
