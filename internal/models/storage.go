package models

import "time"

// Storage: depo hareketlerinin bölümlendiği depo (ör: "Genel", "Fire")
type Storage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;index" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentType: manuel stok hareketinin belge türü (ör: fatura, irsaliye)
type DocumentType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Storage) SetName(name string)      { s.Name = name }
func (d *DocumentType) SetName(name string) { d.Name = name }

func (s *Storage) GetID() uint      { return s.ID }
func (d *DocumentType) GetID() uint { return d.ID }
