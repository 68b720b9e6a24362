package models

// Recognised setting keys.
const (
	SettingSponsorPath  = "SponsorPath"
	SettingPINLogger    = "PIN_Logger"
	SettingPINAdmin     = "PIN_Admin"
	SettingTimeLapBonus = "DRONE_TIMELAP_BONUS"
)

// SettingDefaults are returned when a key has never been saved.
var SettingDefaults = map[string]string{
	SettingSponsorPath:  "./sponsors",
	SettingPINLogger:    "0000",
	SettingPINAdmin:     "9999",
	SettingTimeLapBonus: "Yes",
}

type Setting struct {
	Key   string `json:"key" db:"key"`
	Value string `json:"value" db:"value"`
}
