package model

// Writer 书籍作者（与账号无关）
type Writer struct {
	ID    string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name  string `json:"name" gorm:"type:varchar(100);not null"`
	Books []Book `json:"books,omitempty" gorm:"foreignKey:WriterID"`
}

func (Writer) TableName() string { return "writers" }

type Book struct {
	ID              string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title           string `json:"title" gorm:"type:varchar(200);index;not null"`
	PublicationYear int    `json:"publication_year" gorm:"index;not null"`
	WriterID        string `json:"writer_id" gorm:"type:varchar(36);index;not null"`
}

func (Book) TableName() string { return "books" }
