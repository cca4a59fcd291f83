package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CounterIncremented — результат атомарного инкремента записи счётчика.
type CounterIncremented struct {
	Count   int
	Amounts []float64
}

// DailyCounterRow — строка выборки за один день: категория плюс данные
// её счётчика (нулевые, если записи за день нет). Внутренний DTO слоя
// хранилища, наружу не сериализуется.
type DailyCounterRow struct {
	CategoryID uuid.UUID
	Name       string
	Icon       string
	Color      string
	Unit       string
	Count      int
	Amounts    []float64
}

// RangeCounterRow — строка выборки за диапазон дат: день, категория и
// данные счётчика. В выборку попадают только дни с записями.
type RangeCounterRow struct {
	Date       time.Time
	CategoryID uuid.UUID
	Name       string
	Icon       string
	Color      string
	Unit       string
	Count      int
	Amounts    []float64
}

// UpsertIncrement атомарно создаёт или дополняет запись счётчика по ключу
// (user_id, category_id, date): count увеличивается на единицу, amount
// добавляется в конец массива, непустая заметка дописывается через перевод
// строки к уже сохранённым. Вся арифметика слияния выполняется одним
// SQL-оператором, поэтому конкурентные инкременты одного ключа не теряются.
func (s *Storage) UpsertIncrement(ctx context.Context, userUID, categoryID uuid.UUID, date time.Time, amount float64, notes *string) (*CounterIncremented, error) {
	const op = "storage.UpsertIncrement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO counter_data (user_id, category_id, date, count, amounts, notes)
			  VALUES ($1, $2, $3, 1, ARRAY[$4::float8], $5)
			  ON CONFLICT (user_id, category_id, date)
			  DO UPDATE SET
			      count = counter_data.count + 1,
			      amounts = array_append(counter_data.amounts, $4::float8),
			      notes = CASE
			          WHEN $5::text IS NOT NULL THEN
			              CASE
			                  WHEN counter_data.notes IS NULL THEN $5::text
			                  ELSE counter_data.notes || E'\n' || $5::text
			              END
			          ELSE counter_data.notes
			      END,
			      updated_at = NOW()
			  RETURNING count, to_json(amounts)::text`

	var result CounterIncremented
	var amountsJSON string
	err := s.DB.QueryRowContext(ctx, query, userUID, categoryID, date, amount, notes).
		Scan(&result.Count, &amountsJSON)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal([]byte(amountsJSON), &result.Amounts); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListCountersForDate возвращает по одной строке на каждую активную категорию
// пользователя: с данными счётчика за указанный день, либо с нулями, если
// записи за день нет. Порядок строк — порядок создания категорий.
func (s *Storage) ListCountersForDate(ctx context.Context, userUID uuid.UUID, date time.Time) ([]*DailyCounterRow, error) {
	const op = "storage.ListCountersForDate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      c.id AS category_id,
			      c.name,
			      c.icon,
			      c.color,
			      c.unit,
			      COALESCE(cd.count, 0) AS count,
			      COALESCE(to_json(cd.amounts)::text, '[]') AS amounts
			  FROM categories c
			  LEFT JOIN counter_data cd ON c.id = cd.category_id AND cd.date = $1 AND cd.user_id = $2
			  WHERE c.user_id = $2 AND c.is_active = true
			  ORDER BY c.created_at ASC`
	rows, err := s.DB.QueryContext(ctx, query, date, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*DailyCounterRow
	for rows.Next() {
		var item DailyCounterRow
		var amountsJSON string
		if err := rows.Scan(&item.CategoryID, &item.Name, &item.Icon, &item.Color,
			&item.Unit, &item.Count, &amountsJSON); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal([]byte(amountsJSON), &item.Amounts); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListCountersForRange возвращает записи счётчиков пользователя за диапазон
// дат включительно. Дни без записей и категории, не тронутые в конкретный
// день, в выборке отсутствуют. Строки упорядочены по дате, внутри дня —
// по порядку создания категорий.
func (s *Storage) ListCountersForRange(ctx context.Context, userUID uuid.UUID, startDate, endDate time.Time) ([]*RangeCounterRow, error) {
	const op = "storage.ListCountersForRange"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      cd.date,
			      c.id AS category_id,
			      c.name,
			      c.icon,
			      c.color,
			      c.unit,
			      cd.count,
			      to_json(cd.amounts)::text AS amounts
			  FROM counter_data cd
			  JOIN categories c ON c.id = cd.category_id
			  WHERE cd.user_id = $1 AND cd.date BETWEEN $2 AND $3 AND c.is_active = true
			  ORDER BY cd.date ASC, c.created_at ASC`
	rows, err := s.DB.QueryContext(ctx, query, userUID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*RangeCounterRow
	for rows.Next() {
		var item RangeCounterRow
		var amountsJSON string
		if err := rows.Scan(&item.Date, &item.CategoryID, &item.Name, &item.Icon,
			&item.Color, &item.Unit, &item.Count, &amountsJSON); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal([]byte(amountsJSON), &item.Amounts); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
