package models

type Category struct {
	Id          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null;unique"`
	Description string `json:"description"`
}

// Measure is the unit a material is counted in (m3, kg, unidad, ...).
type Measure struct {
	Id           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"not null;unique"`
	Abbreviation string `json:"abbreviation"`
}
