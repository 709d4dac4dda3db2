package models

// Lab представляет лабораторию, в которой бронируются слоты.
// Справочник лабораторий заполняется миграцией и не изменяется через API.
type Lab struct {
	ID   string
	Name string
}
