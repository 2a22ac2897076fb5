package store

import "context"

type CategoryStore struct {
	db DB
}

type Category struct {
	ID            string `db:"id"`
	Name          string `db:"name"`
	Description   string `db:"description"`
	CoverImage    string `db:"cover_image"`
	MinFloorPrice int64  `db:"min_floor_price"`
	MintFee       int64  `db:"mint_fee"`
	IsActive      bool   `db:"is_active"`
	CreatedAt     any    `db:"created_at"`
}

type CategoryInput struct {
	ID            string
	Name          string
	Description   string
	CoverImage    string
	MinFloorPrice int64
	MintFee       int64
	IsActive      bool
}

func NewCategoryStore(db DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) Create(ctx context.Context, tx Execer, input CategoryInput) error {
	query := `
		INSERT INTO categories (id, name, description, cover_image, min_floor_price, mint_fee, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.Name, input.Description, input.CoverImage,
		input.MinFloorPrice, input.MintFee, input.IsActive,
	)
	return err
}

func (s *CategoryStore) Update(ctx context.Context, tx Execer, input CategoryInput) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE categories
		SET name = $1, description = $2, cover_image = $3, min_floor_price = $4, mint_fee = $5, is_active = $6
		WHERE id = $7
	`, input.Name, input.Description, input.CoverImage, input.MinFloorPrice, input.MintFee, input.IsActive, input.ID)
	return err
}

func (s *CategoryStore) Delete(ctx context.Context, tx Execer, categoryID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, categoryID)
	return err
}

func (s *CategoryStore) GetByID(ctx context.Context, categoryID string) (Category, error) {
	var row Category
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, description, cover_image, min_floor_price, mint_fee, is_active, created_at
		FROM categories
		WHERE id = $1
	`, categoryID)
	return row, err
}

func (s *CategoryStore) ListAll(ctx context.Context) ([]Category, error) {
	var rows []Category
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, description, cover_image, min_floor_price, mint_fee, is_active, created_at
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *CategoryStore) ListActive(ctx context.Context) ([]Category, error) {
	var rows []Category
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, description, cover_image, min_floor_price, mint_fee, is_active, created_at
		FROM categories
		WHERE is_active = TRUE
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountNFTs guards category deletion: categories stay while NFTs reference
// them because approved NFTs carry the category's snapshot fee.
func (s *CategoryStore) CountNFTs(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM nfts WHERE category_id = $1`, categoryID)
	return count, err
}
