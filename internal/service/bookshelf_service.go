package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/internal/apperr"
	"github.com/d60-Lab/inkwell/internal/model"
	"github.com/d60-Lab/inkwell/internal/query"
	"github.com/d60-Lab/inkwell/internal/repository"
	"github.com/d60-Lab/inkwell/internal/validate"
)

type WriterInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

type BookInput struct {
	Title           string `json:"title" validate:"required,max=200"`
	PublicationYear int    `json:"publication_year" validate:"required,notfuture"`
	WriterID        string `json:"writer_id" validate:"required"`
}

// BookshelfService manages writers and their books.
type BookshelfService interface {
	CreateWriter(ctx context.Context, in WriterInput) (*model.Writer, error)
	GetWriter(ctx context.Context, id string) (*model.Writer, error)
	UpdateWriter(ctx context.Context, id string, in WriterInput) (*model.Writer, error)
	DeleteWriter(ctx context.Context, id string) error
	ListWriters(ctx context.Context, page, pageSize int) (*query.Page[*model.Writer], error)

	CreateBook(ctx context.Context, in BookInput) (*model.Book, error)
	GetBook(ctx context.Context, id string) (*model.Book, error)
	UpdateBook(ctx context.Context, id string, in BookInput) (*model.Book, error)
	DeleteBook(ctx context.Context, id string) error
	// ListBooks supports Search (title), AuthorID (writer) and ordering by title or publication_year.
	ListBooks(ctx context.Context, p query.Params) (*query.Page[model.Book], error)
}

type bookshelfService struct {
	tx      *repository.TxManager
	writers repository.WriterRepository
	books   repository.BookRepository
}

func NewBookshelfService(tx *repository.TxManager, writers repository.WriterRepository, books repository.BookRepository) BookshelfService {
	return &bookshelfService{tx: tx, writers: writers, books: books}
}

func (s *bookshelfService) CreateWriter(ctx context.Context, in WriterInput) (*model.Writer, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	w := &model.Writer{ID: uuid.New().String(), Name: in.Name}
	if err := s.writers.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *bookshelfService) GetWriter(ctx context.Context, id string) (*model.Writer, error) {
	w, err := s.writers.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if w.Books == nil {
		w.Books = []model.Book{}
	}
	return w, nil
}

func (s *bookshelfService) UpdateWriter(ctx context.Context, id string, in WriterInput) (*model.Writer, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	w, err := s.writers.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}
	w.Name = in.Name
	if err := s.writers.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *bookshelfService) DeleteWriter(ctx context.Context, id string) error {
	return s.tx.InTx(ctx, func(tx *gorm.DB) error {
		return s.writers.WithTx(tx).Delete(ctx, id)
	})
}

func (s *bookshelfService) ListWriters(ctx context.Context, page, pageSize int) (*query.Page[*model.Writer], error) {
	page, pageSize = normalizePaging(page, pageSize)
	items, total, err := s.writers.List(ctx, query.Offset(page, pageSize), pageSize)
	if err != nil {
		return nil, err
	}
	return pageOf(items, total, page, pageSize), nil
}

func (s *bookshelfService) CreateBook(ctx context.Context, in BookInput) (*model.Book, error) {
	if err := s.checkBook(ctx, &in); err != nil {
		return nil, err
	}
	b := &model.Book{ID: uuid.New().String(), Title: in.Title, PublicationYear: in.PublicationYear, WriterID: in.WriterID}
	if err := s.books.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *bookshelfService) GetBook(ctx context.Context, id string) (*model.Book, error) {
	return s.books.Get(ctx, id)
}

func (s *bookshelfService) UpdateBook(ctx context.Context, id string, in BookInput) (*model.Book, error) {
	if err := s.checkBook(ctx, &in); err != nil {
		return nil, err
	}
	b, err := s.books.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Title, b.PublicationYear, b.WriterID = in.Title, in.PublicationYear, in.WriterID
	if err := s.books.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *bookshelfService) DeleteBook(ctx context.Context, id string) error {
	return s.books.Delete(ctx, id)
}

func (s *bookshelfService) ListBooks(ctx context.Context, p query.Params) (*query.Page[model.Book], error) {
	spec, err := query.Build(query.Books, p)
	if err != nil {
		return nil, err
	}
	return s.books.Query(ctx, spec)
}

func (s *bookshelfService) checkBook(ctx context.Context, in *BookInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.WriterID = strings.TrimSpace(in.WriterID)
	if err := validate.Struct(in); err != nil {
		return err
	}
	if _, err := s.writers.Get(ctx, in.WriterID, false); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Validation("writer_id: unknown writer %s", in.WriterID)
		}
		return err
	}
	return nil
}
