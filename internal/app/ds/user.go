package ds

// 6. Таблица пользователей
type User struct {
	ID          uint   `gorm:"primaryKey"`
	Login       string `gorm:"type:varchar(50);unique;not null"`
	Password    string `gorm:"type:varchar(255);not null"`
	Role        int    `gorm:"type:int;default:0;not null"` // 0 - поставщик, 1 - организатор, 2 - модератор
	Email       string `gorm:"type:varchar(100)"`
	FullName    string `gorm:"type:varchar(100)"`
	CompanyName string `gorm:"type:varchar(100)"` // Компания поставщика
}
