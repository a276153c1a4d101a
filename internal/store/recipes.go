package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"foodgram/internal/models"
)

// recipeSelect expects the viewer's id as $1 for the computed flags.
const recipeSelect = `SELECT r.id, r.name, r.image, r.text, r.cooking_time, r.pub_date,
	u.id, u.email, u.username, u.first_name, u.last_name,
	EXISTS(SELECT 1 FROM follows f WHERE f.user_id = $1 AND f.author_id = u.id),
	EXISTS(SELECT 1 FROM favorites fv WHERE fv.user_id = $1 AND fv.recipe_id = r.id),
	EXISTS(SELECT 1 FROM shopping_list_entries sl WHERE sl.user_id = $1 AND sl.recipe_id = r.id)
	FROM recipes r JOIN users u ON u.id = r.author_id`

func scanRecipe(row pgx.Row) (*models.Recipe, error) {
	var r models.Recipe
	err := row.Scan(&r.ID, &r.Name, &r.Image, &r.Text, &r.CookingTime, &r.PubDate,
		&r.Author.ID, &r.Author.Email, &r.Author.Username, &r.Author.FirstName, &r.Author.LastName,
		&r.Author.IsSubscribed, &r.IsFavorited, &r.IsInShoppingCart)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// recipeWhere builds the filter clause, numbering placeholders after the args already present.
func recipeWhere(filter models.RecipeFilter, viewerID int, args []any) (string, []any) {
	var conds []string
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.TagSlugs) > 0 {
		conds = append(conds, `EXISTS (SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
			WHERE rt.recipe_id = r.id AND t.slug = ANY(`+arg(filter.TagSlugs)+`))`)
	}
	if filter.AuthorID > 0 {
		conds = append(conds, "r.author_id = "+arg(filter.AuthorID))
	}
	if filter.IsFavorited {
		conds = append(conds, "EXISTS (SELECT 1 FROM favorites fv WHERE fv.recipe_id = r.id AND fv.user_id = "+arg(viewerID)+")")
	}
	if filter.IsInShoppingCart {
		conds = append(conds, "EXISTS (SELECT 1 FROM shopping_list_entries sl WHERE sl.recipe_id = r.id AND sl.user_id = "+arg(viewerID)+")")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListRecipes returns one page of recipes, newest first, plus the total match count.
func (s *Store) ListRecipes(ctx context.Context, filter models.RecipeFilter, viewerID int) ([]models.Recipe, int, error) {
	countWhere, countArgs := recipeWhere(filter, viewerID, nil)
	var count int
	if err := s.q.QueryRow(ctx, "SELECT COUNT(*) FROM recipes r"+countWhere, countArgs...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	where, args := recipeWhere(filter, viewerID, []any{viewerID})
	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("%s%s ORDER BY r.pub_date DESC, r.id DESC LIMIT $%d OFFSET $%d",
		recipeSelect, where, len(args)-1, len(args))

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	recipes := []models.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, *recipe)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}

	if err := s.attachRelations(ctx, recipes); err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}

func (s *Store) GetRecipe(ctx context.Context, id, viewerID int) (*models.Recipe, error) {
	recipe, err := scanRecipe(s.q.QueryRow(ctx, recipeSelect+" WHERE r.id = $2", viewerID, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", mapError(err))
	}
	recipes := []models.Recipe{*recipe}
	if err := s.attachRelations(ctx, recipes); err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

func (s *Store) GetShortRecipe(ctx context.Context, id int) (*models.ShortRecipe, error) {
	var r models.ShortRecipe
	err := s.q.QueryRow(ctx, "SELECT id, name, image, cooking_time FROM recipes WHERE id = $1", id).Scan(
		&r.ID, &r.Name, &r.Image, &r.CookingTime)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", mapError(err))
	}
	return &r, nil
}

func (s *Store) GetRecipeAuthorID(ctx context.Context, id int) (int, error) {
	var authorID int
	if err := s.q.QueryRow(ctx, "SELECT author_id FROM recipes WHERE id = $1", id).Scan(&authorID); err != nil {
		return 0, fmt.Errorf("failed to get recipe author: %w", mapError(err))
	}
	return authorID, nil
}

// attachRelations loads tags and ingredient lines for all recipes with one query each.
func (s *Store) attachRelations(ctx context.Context, recipes []models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]int, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
	}

	tags := make(map[int][]models.Tag, len(ids))
	rows, err := s.q.Query(ctx,
		`SELECT rt.recipe_id, t.id, t.name, t.color, t.slug
		 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
		 WHERE rt.recipe_id = ANY($1) ORDER BY t.id`, ids)
	if err != nil {
		return fmt.Errorf("failed to load recipe tags: %w", err)
	}
	for rows.Next() {
		var recipeID int
		var tag models.Tag
		if err := rows.Scan(&recipeID, &tag.ID, &tag.Name, &tag.Color, &tag.Slug); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan recipe tag: %w", err)
		}
		tags[recipeID] = append(tags[recipeID], tag)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to load recipe tags: %w", err)
	}

	lines := make(map[int][]models.RecipeIngredient, len(ids))
	rows, err = s.q.Query(ctx,
		`SELECT ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount
		 FROM recipe_ingredients ri JOIN ingredients i ON i.id = ri.ingredient_id
		 WHERE ri.recipe_id = ANY($1) ORDER BY ri.id`, ids)
	if err != nil {
		return fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	for rows.Next() {
		var recipeID int
		var line models.RecipeIngredient
		if err := rows.Scan(&recipeID, &line.ID, &line.Name, &line.MeasurementUnit, &line.Amount); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		lines[recipeID] = append(lines[recipeID], line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to load recipe ingredients: %w", err)
	}

	for i := range recipes {
		recipes[i].Tags = tags[recipes[i].ID]
		if recipes[i].Tags == nil {
			recipes[i].Tags = []models.Tag{}
		}
		recipes[i].Ingredients = lines[recipes[i].ID]
		if recipes[i].Ingredients == nil {
			recipes[i].Ingredients = []models.RecipeIngredient{}
		}
	}
	return nil
}

// CreateRecipe stores the recipe with its tags and ingredient lines atomically.
func (s *Store) CreateRecipe(ctx context.Context, in models.RecipeInput) (int, error) {
	var id int
	err := s.inTx(ctx, func(tx *Store) error {
		err := tx.q.QueryRow(ctx,
			`INSERT INTO recipes (author_id, name, text, image, cooking_time)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			in.AuthorID, in.Name, in.Text, in.Image, in.CookingTime).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to create recipe: %w", mapError(err))
		}
		return tx.replaceRelations(ctx, id, in)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateRecipe overwrites the recipe fields and replaces its tags and ingredient
// lines. An empty image keeps the stored one.
func (s *Store) UpdateRecipe(ctx context.Context, id int, in models.RecipeInput) error {
	return s.inTx(ctx, func(tx *Store) error {
		tag, err := tx.q.Exec(ctx,
			`UPDATE recipes SET name = $1, text = $2, image = COALESCE(NULLIF($3, ''), image), cooking_time = $4
			 WHERE id = $5`,
			in.Name, in.Text, in.Image, in.CookingTime, id)
		if err != nil {
			return fmt.Errorf("failed to update recipe: %w", mapError(err))
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if _, err := tx.q.Exec(ctx, "DELETE FROM recipe_tags WHERE recipe_id = $1", id); err != nil {
			return fmt.Errorf("failed to clear recipe tags: %w", err)
		}
		if _, err := tx.q.Exec(ctx, "DELETE FROM recipe_ingredients WHERE recipe_id = $1", id); err != nil {
			return fmt.Errorf("failed to clear recipe ingredients: %w", err)
		}
		return tx.replaceRelations(ctx, id, in)
	})
}

func (s *Store) replaceRelations(ctx context.Context, recipeID int, in models.RecipeInput) error {
	batch := &pgx.Batch{}
	for _, tagID := range in.TagIDs {
		batch.Queue("INSERT INTO recipe_tags (recipe_id, tag_id) VALUES ($1, $2)", recipeID, tagID)
	}
	for _, line := range in.Ingredients {
		batch.Queue("INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount) VALUES ($1, $2, $3)",
			recipeID, line.ID, line.Amount)
	}

	results := s.q.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to link recipe relations: %w", mapError(err))
		}
	}
	return results.Close()
}

func (s *Store) DeleteRecipe(ctx context.Context, id int) error {
	tag, err := s.q.Exec(ctx, "DELETE FROM recipes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListAuthorRecipes(ctx context.Context, authorID, limit int) ([]models.ShortRecipe, error) {
	query := "SELECT id, name, image, cooking_time FROM recipes WHERE author_id = $1 ORDER BY pub_date DESC, id DESC"
	args := []any{authorID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list author recipes: %w", err)
	}
	defer rows.Close()

	recipes := []models.ShortRecipe{}
	for rows.Next() {
		var r models.ShortRecipe
		if err := rows.Scan(&r.ID, &r.Name, &r.Image, &r.CookingTime); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}
