package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// ListPlans возвращает справочник тарифов.
func (s *Storage) ListPlans(ctx context.Context) ([]models.Plan, error) {
	const op = "storage.ListPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, description, max_chatbots, features
			  FROM plans
			  ORDER BY sort_order`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Plan
	for rows.Next() {
		var p models.Plan
		var features []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description,
			&p.MaxChatbots, &features); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := unmarshalJSON(op, features, &p.Features); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetPlan возвращает тариф по строковому идентификатору.
func (s *Storage) GetPlan(ctx context.Context, id string) (*models.Plan, error) {
	const op = "storage.GetPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, description, max_chatbots, features
			  FROM plans
			  WHERE id = $1`
	var p models.Plan
	var features []byte
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price,
		&p.Description, &p.MaxChatbots, &features); err != nil {
		return nil, wrapNotFound(op, err)
	}
	if err := unmarshalJSON(op, features, &p.Features); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListTemplates возвращает справочник шаблонов.
func (s *Storage) ListTemplates(ctx context.Context) ([]models.Template, error) {
	const op = "storage.ListTemplates"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, icon, color, category, complexity, content
			  FROM templates
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Template
	for rows.Next() {
		var tpl models.Template
		var content []byte
		if err := rows.Scan(&tpl.ID, &tpl.Name, &tpl.Description, &tpl.Icon,
			&tpl.Color, &tpl.Category, &tpl.Complexity, &content); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := unmarshalJSON(op, content, &tpl.Content); err != nil {
			return nil, err
		}
		result = append(result, tpl)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetTemplate возвращает шаблон по его ID.
func (s *Storage) GetTemplate(ctx context.Context, id int64) (*models.Template, error) {
	const op = "storage.GetTemplate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, icon, color, category, complexity, content
			  FROM templates
			  WHERE id = $1`
	var tpl models.Template
	var content []byte
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&tpl.ID, &tpl.Name,
		&tpl.Description, &tpl.Icon, &tpl.Color, &tpl.Category, &tpl.Complexity, &content); err != nil {
		return nil, wrapNotFound(op, err)
	}
	if err := unmarshalJSON(op, content, &tpl.Content); err != nil {
		return nil, err
	}
	return &tpl, nil
}
