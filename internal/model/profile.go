package model

import "time"

// ProfileField names one of the intake-flow columns the front end fills in
// step by step. Updates go through this enum so a field name is never
// interpolated into SQL.
type ProfileField string

const (
	ProfileFieldSizeName     ProfileField = "size_name"
	ProfileFieldName         ProfileField = "name"
	ProfileFieldEmail        ProfileField = "email"
	ProfileFieldPhone        ProfileField = "phone"
	ProfileFieldDeliveryType ProfileField = "delivery_type"
	ProfileFieldAddress      ProfileField = "address"
	ProfileFieldPostcode     ProfileField = "postcode"
	ProfileFieldSocialHandle ProfileField = "social_handle"
)

// ProfileColumns maps every updatable field to its column name. Membership in
// this map is the validity check for submit-field requests.
var ProfileColumns = map[ProfileField]string{
	ProfileFieldSizeName:     "size_name",
	ProfileFieldName:         "name",
	ProfileFieldEmail:        "email",
	ProfileFieldPhone:        "phone",
	ProfileFieldDeliveryType: "delivery_type",
	ProfileFieldAddress:      "address",
	ProfileFieldPostcode:     "postcode",
	ProfileFieldSocialHandle: "social_handle",
}

type Profile struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	UserID       int64     `gorm:"column:user_id;uniqueIndex;not null"`
	Handle       string    `gorm:"column:handle;size:128;not null"`
	SizeName     *string   `gorm:"column:size_name;size:16"`
	Name         *string   `gorm:"column:name;type:text"`
	Email        *string   `gorm:"column:email;size:254"`
	Phone        *string   `gorm:"column:phone;size:32"`
	DeliveryType *string   `gorm:"column:delivery_type;size:64"`
	Address      *string   `gorm:"column:address;type:text"`
	Postcode     *string   `gorm:"column:postcode;size:16"`
	SocialHandle *string   `gorm:"column:social_handle;size:128"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}
