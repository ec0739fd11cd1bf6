package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dujoseaugusto/land-data-scraper/internal/logger"
	"github.com/dujoseaugusto/land-data-scraper/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PropertyRepository persists addresses and their dependent records.
// Every write is its own implicit transaction.
type PropertyRepository interface {
	InsertAddress(ctx context.Context, address Address) (int64, error)
	InsertLandCost(ctx context.Context, cost LandCost) (int64, error)
	InsertZoning(ctx context.Context, zoning ZoningInfo) (int64, error)
	LinkZoning(ctx context.Context, addressID, zoningID int64) error
	InsertRestriction(ctx context.Context, restriction BuildingRestriction) (int64, error)
	InsertProjection(ctx context.Context, projection FuturePriceProjection) (int64, error)
	FindByID(ctx context.Context, addressID int64) (*PropertyRecord, error)
	Search(ctx context.Context, query string, pagination PaginationParams) (*PropertySearchResult, error)
	Close() error
}

// Dialect is the SQL flavour behind a SQLRepository
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

// rebind rewrites ? placeholders into $n for postgres.
func (d Dialect) rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *logger.Logger
}

// NewSQLRepository opens the database, checks connectivity and applies the schema.
func NewSQLRepository(ctx context.Context, driver, dsn string) (*SQLRepository, error) {
	dialect := Dialect(driver)
	if dialect != DialectPostgres && dialect != DialectSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s connection: %w", dialect, err)
	}

	if dialect == DialectSQLite {
		// one connection keeps PRAGMAs and in-memory databases consistent
		db.SetMaxOpenConns(1)
	} else {
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	repo := &SQLRepository{
		db:      db,
		dialect: dialect,
		logger:  logger.NewLogger("sql_repository").WithField("dialect", string(dialect)),
	}
	if err := repo.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLRepository) ensureSchema(ctx context.Context) error {
	if r.dialect == DialectSQLite {
		if _, err := r.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	schema, err := migrationsFS.ReadFile("migrations/" + string(r.dialect) + ".sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	r.logger.Debug("Schema ensured")
	return nil
}

func (r *SQLRepository) Close() error {
	return r.db.Close()
}

func (r *SQLRepository) insertReturningID(ctx context.Context, query, idColumn string, args ...interface{}) (int64, error) {
	var id int64
	q := r.dialect.rebind(query + " RETURNING " + idColumn)
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *SQLRepository) InsertAddress(ctx context.Context, a Address) (int64, error) {
	id, err := r.insertReturningID(ctx, `
		INSERT INTO addresses (street, city, state, postal_code, latitude, longitude, zoning_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, "address_id",
		a.Street, a.City, a.State, a.PostalCode, a.Latitude, a.Longitude, a.ZoningID)
	if err != nil {
		return 0, fmt.Errorf("insert address: %w", err)
	}
	return id, nil
}

func (r *SQLRepository) InsertLandCost(ctx context.Context, c LandCost) (int64, error) {
	if c.DateOfEstimation == "" {
		c.DateOfEstimation = Today()
	}
	id, err := r.insertReturningID(ctx, `
		INSERT INTO land_costs (address_id, estimated_cost_per_sqft, date_of_estimation, data_source)
		VALUES (?, ?, ?, ?)`, "cost_id",
		c.AddressID, c.EstimatedCostPerSqft, c.DateOfEstimation, c.DataSource)
	if err != nil {
		return 0, fmt.Errorf("insert land cost for address %d: %w", c.AddressID, err)
	}
	return id, nil
}

func (r *SQLRepository) InsertZoning(ctx context.Context, z ZoningInfo) (int64, error) {
	id, err := r.insertReturningID(ctx, `
		INSERT INTO zoning_info (zone_name, max_building_height, density_limit,
			min_front_setback, min_rear_setback, min_side_setback, permitted_land_uses, effective_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, "zoning_id",
		z.ZoneName, z.MaxBuildingHeight, z.DensityLimit,
		z.MinFrontSetback, z.MinRearSetback, z.MinSideSetback, z.PermittedLandUses, z.EffectiveDate)
	if err != nil {
		return 0, fmt.Errorf("insert zoning info: %w", err)
	}
	return id, nil
}

func (r *SQLRepository) LinkZoning(ctx context.Context, addressID, zoningID int64) error {
	res, err := r.db.ExecContext(ctx, r.dialect.rebind(
		`UPDATE addresses SET zoning_id = ? WHERE address_id = ?`), zoningID, addressID)
	if err != nil {
		return fmt.Errorf("link zoning %d to address %d: %w", zoningID, addressID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("link zoning %d to address %d: %w", zoningID, addressID, err)
	}
	if n == 0 {
		return fmt.Errorf("link zoning to address %d: %w", addressID, ErrNotFound)
	}
	return nil
}

func (r *SQLRepository) InsertRestriction(ctx context.Context, br BuildingRestriction) (int64, error) {
	id, err := r.insertReturningID(ctx, `
		INSERT INTO building_restrictions (address_id, restriction_type, restriction_value, notes)
		VALUES (?, ?, ?, ?)`, "restriction_id",
		br.AddressID, br.RestrictionType, br.RestrictionValue, br.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert building restriction for address %d: %w", br.AddressID, err)
	}
	return id, nil
}

func (r *SQLRepository) InsertProjection(ctx context.Context, p FuturePriceProjection) (int64, error) {
	if p.ProjectionDate == "" {
		p.ProjectionDate = Today()
	}
	id, err := r.insertReturningID(ctx, `
		INSERT INTO future_price_projections (address_id, projected_increase_percentage, projection_date, analysis_details)
		VALUES (?, ?, ?, ?)`, "projection_id",
		p.AddressID, p.ProjectedIncreasePercentage, p.ProjectionDate, p.AnalysisDetails)
	if err != nil {
		return 0, fmt.Errorf("insert projection for address %d: %w", p.AddressID, err)
	}
	return id, nil
}

const addressColumns = `
	a.address_id, a.street, a.city, a.state, a.postal_code, a.latitude, a.longitude, a.zoning_id,
	z.zoning_id, z.zone_name, z.max_building_height, z.density_limit,
	z.min_front_setback, z.min_rear_setback, z.min_side_setback, z.permitted_land_uses,
	CAST(z.effective_date AS TEXT)`

const addressFrom = `
	FROM addresses a
	LEFT JOIN zoning_info z ON z.zoning_id = a.zoning_id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAddressRow(row rowScanner) (PropertyRecord, error) {
	var (
		rec        PropertyRecord
		postalCode sql.NullString
		lat, lon   sql.NullFloat64
		zoningRef  sql.NullInt64
		zoningID   sql.NullInt64
		zoneName   sql.NullString
		height     sql.NullFloat64
		density    sql.NullFloat64
		front      sql.NullFloat64
		rear       sql.NullFloat64
		side       sql.NullFloat64
		uses       sql.NullString
		effective  sql.NullString
	)
	err := row.Scan(
		&rec.ID, &rec.Street, &rec.City, &rec.State, &postalCode, &lat, &lon, &zoningRef,
		&zoningID, &zoneName, &height, &density, &front, &rear, &side, &uses, &effective,
	)
	if err != nil {
		return rec, err
	}

	rec.PostalCode = nullString(postalCode)
	rec.Latitude = nullFloat(lat)
	rec.Longitude = nullFloat(lon)
	if zoningRef.Valid {
		id := zoningRef.Int64
		rec.ZoningID = &id
	}
	if zoningID.Valid {
		rec.Zoning = &ZoningInfo{
			ID:                zoningID.Int64,
			ZoneName:          zoneName.String,
			MaxBuildingHeight: nullFloat(height),
			DensityLimit:      nullFloat(density),
			MinFrontSetback:   nullFloat(front),
			MinRearSetback:    nullFloat(rear),
			MinSideSetback:    nullFloat(side),
			PermittedLandUses: nullString(uses),
			EffectiveDate:     nullString(effective),
		}
	}
	rec.Restrictions = []BuildingRestriction{}
	rec.LandCosts = []LandCost{}
	rec.Projections = []FuturePriceProjection{}
	return rec, nil
}

func (r *SQLRepository) FindByID(ctx context.Context, addressID int64) (*PropertyRecord, error) {
	row := r.db.QueryRowContext(ctx,
		r.dialect.rebind(`SELECT `+addressColumns+addressFrom+` WHERE a.address_id = ?`), addressID)
	rec, err := scanAddressRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find address %d: %w", addressID, err)
	}

	records := []PropertyRecord{rec}
	if err := r.loadDependents(ctx, records); err != nil {
		return nil, err
	}
	return &records[0], nil
}

// Search matches every term against street, city, state and postal code,
// case-insensitively and as a substring.
func (r *SQLRepository) Search(ctx context.Context, query string, pagination PaginationParams) (*PropertySearchResult, error) {
	pagination = pagination.Normalize()

	var (
		conditions []string
		args       []interface{}
	)
	for _, term := range utils.CreateSearchTerms(query) {
		pattern := "%" + utils.EscapeLike(term) + "%"
		conditions = append(conditions, `(
			LOWER(a.street) LIKE ? ESCAPE '\' OR LOWER(a.city) LIKE ? ESCAPE '\' OR
			LOWER(a.state) LIKE ? ESCAPE '\' OR LOWER(COALESCE(a.postal_code, '')) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern, pattern)
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var totalItems int64
	if err := r.db.QueryRowContext(ctx, r.dialect.rebind(`SELECT COUNT(*)`+addressFrom+where), args...).Scan(&totalItems); err != nil {
		return nil, fmt.Errorf("count addresses: %w", err)
	}

	offset := (pagination.Page - 1) * pagination.PageSize
	pageArgs := append(append([]interface{}{}, args...), pagination.PageSize, offset)
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(
		`SELECT `+addressColumns+addressFrom+where+` ORDER BY a.address_id DESC LIMIT ? OFFSET ?`), pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("search addresses: %w", err)
	}

	records := []PropertyRecord{}
	for rows.Next() {
		rec, err := scanAddressRow(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan address: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate addresses: %w", err)
	}
	rows.Close()

	if err := r.loadDependents(ctx, records); err != nil {
		return nil, err
	}

	totalPages := int((totalItems + int64(pagination.PageSize) - 1) / int64(pagination.PageSize))
	return &PropertySearchResult{
		Properties:  records,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: pagination.Page,
		PageSize:    pagination.PageSize,
	}, nil
}

// loadDependents fills restrictions, land costs and projections for records in place.
func (r *SQLRepository) loadDependents(ctx context.Context, records []PropertyRecord) error {
	if len(records) == 0 {
		return nil
	}
	index := make(map[int64]int, len(records))
	ids := make([]interface{}, len(records))
	for i, rec := range records {
		index[rec.ID] = i
		ids[i] = rec.ID
	}
	in := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ") + ")"

	if err := r.eachRow(ctx, `SELECT restriction_id, address_id, restriction_type, restriction_value, notes
		FROM building_restrictions WHERE address_id IN `+in+` ORDER BY restriction_id`, ids, func(s rowScanner) error {
		var br BuildingRestriction
		var notes sql.NullString
		if err := s.Scan(&br.ID, &br.AddressID, &br.RestrictionType, &br.RestrictionValue, &notes); err != nil {
			return err
		}
		br.Notes = nullString(notes)
		i := index[br.AddressID]
		records[i].Restrictions = append(records[i].Restrictions, br)
		return nil
	}); err != nil {
		return fmt.Errorf("load building restrictions: %w", err)
	}

	if err := r.eachRow(ctx, `SELECT cost_id, address_id, estimated_cost_per_sqft, CAST(date_of_estimation AS TEXT), data_source
		FROM land_costs WHERE address_id IN `+in+` ORDER BY cost_id`, ids, func(s rowScanner) error {
		var lc LandCost
		if err := s.Scan(&lc.ID, &lc.AddressID, &lc.EstimatedCostPerSqft, &lc.DateOfEstimation, &lc.DataSource); err != nil {
			return err
		}
		i := index[lc.AddressID]
		records[i].LandCosts = append(records[i].LandCosts, lc)
		return nil
	}); err != nil {
		return fmt.Errorf("load land costs: %w", err)
	}

	if err := r.eachRow(ctx, `SELECT projection_id, address_id, projected_increase_percentage, CAST(projection_date AS TEXT), analysis_details
		FROM future_price_projections WHERE address_id IN `+in+` ORDER BY projection_id`, ids, func(s rowScanner) error {
		var p FuturePriceProjection
		var details sql.NullString
		if err := s.Scan(&p.ID, &p.AddressID, &p.ProjectedIncreasePercentage, &p.ProjectionDate, &details); err != nil {
			return err
		}
		p.AnalysisDetails = nullString(details)
		i := index[p.AddressID]
		records[i].Projections = append(records[i].Projections, p)
		return nil
	}); err != nil {
		return fmt.Errorf("load projections: %w", err)
	}
	return nil
}

func (r *SQLRepository) eachRow(ctx context.Context, query string, args []interface{}, fn func(rowScanner) error) error {
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}
