package runtime

import (
	"context"
	"fmt"

	"github.com/fastorm/fastorm"
	"github.com/fastorm/fastorm/record"
	"github.com/fastorm/fastorm/schema"
)

// BelongsTo follows the record's foreign key to its parent in target.
// The FK column is found on the record's own schema; if the record's
// schema declares no foreign key to target, or more than one, the lookup
// fails with ErrNoSuchRelation (use BelongsToVia to disambiguate). A NULL
// foreign-key value returns ErrNotFound without querying.
//
// Every call issues a fresh query; nothing is cached.
func (e *Engine) BelongsTo(ctx context.Context, r *record.Record, target *schema.Schema) (*record.Record, error) {
	fk, err := singleForeignKey(r.Schema(), target)
	if err != nil {
		return nil, err
	}
	return e.belongsTo(ctx, r, target, fk)
}

// BelongsToVia is BelongsTo with the foreign-key column named explicitly,
// for schemas that declare more than one foreign key to the same target.
func (e *Engine) BelongsToVia(ctx context.Context, r *record.Record, target *schema.Schema, column string) (*record.Record, error) {
	fk, err := namedForeignKey(r.Schema(), target, column)
	if err != nil {
		return nil, err
	}
	return e.belongsTo(ctx, r, target, fk)
}

func (e *Engine) belongsTo(ctx context.Context, r *record.Record, target *schema.Schema, fk schema.ForeignKey) (*record.Record, error) {
	v, assigned := r.Value(fk.Column)
	if !assigned || v == nil {
		return nil, fastorm.ErrNotFound
	}

	pk, err := target.PrimaryKey()
	if err != nil {
		return nil, err
	}
	return e.Query(target).
		Where(fmt.Sprintf("%s = ?", pk.Name), v).
		First(ctx)
}

// HasMany returns every target record whose foreign key points at this
// record. The FK column is found on the target schema, with the same
// ambiguity rule as BelongsTo. An unsaved record has no key for
// dependents to reference, so the lookup fails with ErrMissingKey.
func (e *Engine) HasMany(ctx context.Context, r *record.Record, target *schema.Schema) ([]*record.Record, error) {
	fk, err := singleForeignKey(target, r.Schema())
	if err != nil {
		return nil, err
	}
	return e.hasMany(ctx, r, target, fk)
}

// HasManyVia is HasMany with the target's foreign-key column named
// explicitly.
func (e *Engine) HasManyVia(ctx context.Context, r *record.Record, target *schema.Schema, column string) ([]*record.Record, error) {
	fk, err := namedForeignKey(target, r.Schema(), column)
	if err != nil {
		return nil, err
	}
	return e.hasMany(ctx, r, target, fk)
}

func (e *Engine) hasMany(ctx context.Context, r *record.Record, target *schema.Schema, fk schema.ForeignKey) ([]*record.Record, error) {
	id, ok := r.PrimaryKey()
	if !ok {
		return nil, fmt.Errorf("%w: unsaved %s record cannot have dependents", fastorm.ErrMissingKey, r.Schema().Table())
	}
	return e.Query(target).
		Where(fmt.Sprintf("%s = ?", fk.Column), id).
		All(ctx)
}

// singleForeignKey returns the one foreign key on source referencing
// target.
func singleForeignKey(source, target *schema.Schema) (schema.ForeignKey, error) {
	fks := source.ForeignKeysTo(target)
	switch len(fks) {
	case 1:
		return fks[0], nil
	case 0:
		return schema.ForeignKey{}, fmt.Errorf("%w: %s does not reference %s",
			fastorm.ErrNoSuchRelation, source.Table(), target.Table())
	default:
		return schema.ForeignKey{}, fmt.Errorf("%w: %s references %s through %d columns, name one explicitly",
			fastorm.ErrNoSuchRelation, source.Table(), target.Table(), len(fks))
	}
}

// namedForeignKey returns the foreign key declared on source.column,
// verifying it references target.
func namedForeignKey(source, target *schema.Schema, column string) (schema.ForeignKey, error) {
	for _, fk := range source.ForeignKeysTo(target) {
		if fk.Column == column {
			return fk, nil
		}
	}
	return schema.ForeignKey{}, fmt.Errorf("%w: %s.%s does not reference %s",
		fastorm.ErrNoSuchRelation, source.Table(), column, target.Table())
}
