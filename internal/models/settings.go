package models

// Settings holds persistent application preferences
type Settings struct {
	Timezone string `json:"timezone"`
}
