package store

import (
	"context"
	"fmt"

	"foodgram/internal/models"
)

func (s *Store) Follow(ctx context.Context, userID, authorID int) error {
	if userID == authorID {
		return fmt.Errorf("%w: cannot follow yourself", ErrInvalidArgument)
	}
	if _, err := s.q.Exec(ctx, "INSERT INTO follows (user_id, author_id) VALUES ($1, $2)", userID, authorID); err != nil {
		return fmt.Errorf("failed to follow author: %w", mapError(err))
	}
	return nil
}

// Unfollow reports whether a subscription existed.
func (s *Store) Unfollow(ctx context.Context, userID, authorID int) (bool, error) {
	tag, err := s.q.Exec(ctx, "DELETE FROM follows WHERE user_id = $1 AND author_id = $2", userID, authorID)
	if err != nil {
		return false, fmt.Errorf("failed to unfollow author: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListSubscriptions pages through the authors userID follows, each with up to
// recipesLimit of their recipes (all of them when recipesLimit is 0).
func (s *Store) ListSubscriptions(ctx context.Context, userID, limit, offset, recipesLimit int) ([]models.Subscription, int, error) {
	var count int
	if err := s.q.QueryRow(ctx, "SELECT COUNT(*) FROM follows WHERE user_id = $1", userID).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	rows, err := s.q.Query(ctx,
		`SELECT `+userColumns+`, (SELECT COUNT(*) FROM recipes r WHERE r.author_id = u.id)
		 FROM follows fl JOIN users u ON u.id = fl.author_id
		 WHERE fl.user_id = $1
		 ORDER BY fl.created_at DESC, fl.id DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	subs := []models.Subscription{}
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.Username, &sub.FirstName, &sub.LastName,
			&sub.IsSubscribed, &sub.RecipesCount); err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	for i := range subs {
		recipes, err := s.ListAuthorRecipes(ctx, subs[i].ID, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		subs[i].Recipes = recipes
	}
	return subs, count, nil
}

// GetSubscription returns the followed author as shown in the subscriptions list.
func (s *Store) GetSubscription(ctx context.Context, userID, authorID, recipesLimit int) (*models.Subscription, error) {
	author, err := s.GetUser(ctx, authorID, userID)
	if err != nil {
		return nil, err
	}
	recipes, err := s.ListAuthorRecipes(ctx, authorID, recipesLimit)
	if err != nil {
		return nil, err
	}
	var total int
	if err := s.q.QueryRow(ctx, "SELECT COUNT(*) FROM recipes WHERE author_id = $1", authorID).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count author recipes: %w", err)
	}
	return &models.Subscription{User: *author, Recipes: recipes, RecipesCount: total}, nil
}

// recipeRelation names the user-to-recipe join tables managed through add/remove actions.
type recipeRelation string

const (
	favorites    recipeRelation = "favorites"
	shoppingList recipeRelation = "shopping_list_entries"
)

func (s *Store) addRelation(ctx context.Context, rel recipeRelation, userID, recipeID int) error {
	query := fmt.Sprintf("INSERT INTO %s (user_id, recipe_id) VALUES ($1, $2)", rel)
	if _, err := s.q.Exec(ctx, query, userID, recipeID); err != nil {
		return fmt.Errorf("failed to add recipe to %s: %w", rel, mapError(err))
	}
	return nil
}

func (s *Store) removeRelation(ctx context.Context, rel recipeRelation, userID, recipeID int) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE user_id = $1 AND recipe_id = $2", rel)
	tag, err := s.q.Exec(ctx, query, userID, recipeID)
	if err != nil {
		return false, fmt.Errorf("failed to remove recipe from %s: %w", rel, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) AddFavorite(ctx context.Context, userID, recipeID int) error {
	return s.addRelation(ctx, favorites, userID, recipeID)
}

func (s *Store) RemoveFavorite(ctx context.Context, userID, recipeID int) (bool, error) {
	return s.removeRelation(ctx, favorites, userID, recipeID)
}

func (s *Store) AddToShoppingList(ctx context.Context, userID, recipeID int) error {
	return s.addRelation(ctx, shoppingList, userID, recipeID)
}

func (s *Store) RemoveFromShoppingList(ctx context.Context, userID, recipeID int) (bool, error) {
	return s.removeRelation(ctx, shoppingList, userID, recipeID)
}
