package models

type DashboardStats struct {
	Points   int `json:"points"`
	Games    int `json:"games"`
	Rounds   int `json:"rounds"`
	Events   int `json:"events"`
	Areas    int `json:"areas"`
	Schools  int `json:"schools"`
	Students int `json:"students"`
	Matches  int `json:"matches"`
}
