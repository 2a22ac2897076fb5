package store

import "context"

type NFTStore struct {
	db DB
}

type NFT struct {
	ID           string  `db:"id"`
	OwnerID      string  `db:"owner_id"`
	Name         string  `db:"name"`
	Description  string  `db:"description"`
	CategoryID   string  `db:"category_id"`
	FloorPrice   int64   `db:"floor_price"`
	ArtworkURL   string  `db:"artwork_url"`
	MintFee      int64   `db:"mint_fee"`
	Status       string  `db:"status"`
	IsActive     bool    `db:"is_active"`
	AdminNote    string  `db:"admin_note"`
	ProcessedBy  *string `db:"processed_by"`
	ProcessedAt  any     `db:"processed_at"`
	CreatedAt    any     `db:"created_at"`
	OwnerName    *string `db:"owner_name"`
	OwnerEmail   *string `db:"owner_email"`
	CategoryName *string `db:"category_name"`
}

type NFTInput struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	CategoryID  string
	FloorPrice  int64
	ArtworkURL  string
	MintFee     int64
}

func NewNFTStore(db DB) *NFTStore {
	return &NFTStore{db: db}
}

func (s *NFTStore) Create(ctx context.Context, tx Execer, input NFTInput) error {
	query := `
		INSERT INTO nfts (id, owner_id, name, description, category_id, floor_price, artwork_url, mint_fee, status, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending', FALSE)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.OwnerID, input.Name, input.Description, input.CategoryID,
		input.FloorPrice, input.ArtworkURL, input.MintFee,
	)
	return err
}

func (s *NFTStore) GetByID(ctx context.Context, nftID string) (NFT, error) {
	var row NFT
	err := s.db.GetContext(ctx, &row, nftSelect+` WHERE n.id = $1`, nftID)
	return row, err
}

func (s *NFTStore) GetForUpdate(ctx context.Context, tx Getter, nftID string) (NFT, error) {
	var row NFT
	err := tx.GetContext(ctx, &row, `
		SELECT id, owner_id, name, description, category_id, floor_price, artwork_url,
		       mint_fee, status, is_active, admin_note, processed_by, processed_at, created_at
		FROM nfts
		WHERE id = $1
		FOR UPDATE
	`, nftID)
	return row, err
}

func (s *NFTStore) MarkProcessed(ctx context.Context, tx Execer, nftID, status string, isActive bool, adminNote, processedBy string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE nfts
		SET status = $1, is_active = $2, admin_note = $3, processed_by = $4, processed_at = NOW()
		WHERE id = $5
	`, status, isActive, adminNote, processedBy, nftID)
	return err
}

func (s *NFTStore) SetActive(ctx context.Context, tx Execer, nftID string, isActive bool) error {
	_, err := tx.ExecContext(ctx, `UPDATE nfts SET is_active = $1 WHERE id = $2`, isActive, nftID)
	return err
}

func (s *NFTStore) ListByOwner(ctx context.Context, ownerID string, params ListParams) ([]NFT, int, error) {
	where := ` WHERE n.owner_id = $1`
	args := []any{ownerID}
	if params.Status != "" {
		where += ` AND n.status = $2`
		args = append(args, params.Status)
	}
	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM nfts n`+where, args...); err != nil {
		return nil, 0, err
	}
	query := nftSelect + where + orderClause(params.SortBy, nftSortable, params.SortOrder) + limitOffsetClause(len(args))
	args = append(args, params.PageSize(), params.Offset())
	var rows []NFT
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *NFTStore) ListAll(ctx context.Context, params ListParams) ([]NFT, int, error) {
	where := ""
	args := []any{}
	if params.Status != "" {
		where = ` WHERE n.status = $1`
		args = append(args, params.Status)
	}
	if params.Search != "" {
		if where == "" {
			where = ` WHERE`
		} else {
			where += ` AND`
		}
		args = append(args, likePattern(params.Search))
		where += ` (n.name ILIKE $` + itoa(len(args)) + ` OR u.username ILIKE $` + itoa(len(args)) + `)`
	}
	var total int
	countQuery := `SELECT COUNT(1) FROM nfts n LEFT JOIN users u ON u.id = n.owner_id` + where
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}
	query := nftSelect + where + orderClause(params.SortBy, nftSortable, params.SortOrder) + limitOffsetClause(len(args))
	args = append(args, params.PageSize(), params.Offset())
	var rows []NFT
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

const nftSelect = `
	SELECT n.id, n.owner_id, n.name, n.description, n.category_id, n.floor_price, n.artwork_url,
	       n.mint_fee, n.status, n.is_active, n.admin_note, n.processed_by, n.processed_at, n.created_at,
	       u.username AS owner_name, u.email AS owner_email, c.name AS category_name
	FROM nfts n
	LEFT JOIN users u ON u.id = n.owner_id
	LEFT JOIN categories c ON c.id = n.category_id
`

var nftSortable = map[string]string{
	"name":        "n.name",
	"floor_price": "n.floor_price",
	"status":      "n.status",
	"created_at":  "n.created_at",
}
