package plants

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/floraguard/internal/toxicity"
	"github.com/JaimeStill/floraguard/pkg/pagination"
	"github.com/JaimeStill/floraguard/pkg/query"
	"github.com/JaimeStill/floraguard/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a plant repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "plants"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Plant], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "ID", "ScientificName", "CommonName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count plants: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPlant)
	if err != nil {
		return nil, fmt.Errorf("query plants: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, key string) (*Plant, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	q := fmt.Sprintf(
		"SELECT %s FROM %s WHERE p.id = $1 OR $1 = ANY(%s) ORDER BY (p.id = $1) DESC LIMIT 1",
		projection.Columns(),
		projection.Table(),
		aliasColumn,
	)

	p, err := repository.QueryOne(ctx, r.db, q, []any{key}, scanPlant)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Upsert(ctx context.Context, cmd UpsertCommand) (*Plant, error) {
	if cmd.ID == "" || cmd.ID != toxicity.Normalize(cmd.ID) {
		return nil, ErrInvalidKey
	}
	if cmd.ScientificName == "" {
		return nil, ErrInvalidBody
	}

	isToxic := true
	if cmd.IsToxic != nil {
		isToxic = *cmd.IsToxic
	}

	source := cmd.Source
	if source == "" {
		source = toxicity.SourceCurated
	}

	aliases := make([]string, 0, len(cmd.Aliases))
	for _, a := range cmd.Aliases {
		if key := toxicity.Normalize(a); key != "" && key != cmd.ID {
			aliases = append(aliases, key)
		}
	}

	translations := cmd.Translations
	if translations == nil {
		translations = map[string]string{}
	}
	encoded, err := json.Marshal(translations)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	q := fmt.Sprintf(`
		INSERT INTO public.plants AS p (id, scientific_name, common_name, symptoms, poisoning_action, is_toxic, source, image_folder, aliases, translations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb)
		ON CONFLICT (id) DO UPDATE SET
			scientific_name = EXCLUDED.scientific_name,
			common_name = EXCLUDED.common_name,
			symptoms = EXCLUDED.symptoms,
			poisoning_action = EXCLUDED.poisoning_action,
			is_toxic = EXCLUDED.is_toxic,
			source = EXCLUDED.source,
			image_folder = EXCLUDED.image_folder,
			aliases = EXCLUDED.aliases,
			translations = EXCLUDED.translations,
			updated_at = now()
		RETURNING %s`, projection.Columns())

	args := []any{
		cmd.ID,
		cmd.ScientificName,
		cmd.CommonName,
		cmd.Symptoms,
		cmd.PoisoningAction,
		isToxic,
		source,
		cmd.ImageFolder,
		aliases,
		string(encoded),
	}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Plant, error) {
		return repository.QueryOne(ctx, tx, q, args, scanPlant)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("plant upserted", "id", p.ID)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM public.plants WHERE id = $1",
			key,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("plant deleted", "id", key)
	return nil
}
