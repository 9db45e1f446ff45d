package entry

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const entryColumns = `id, title, source_type, source_url, file_ref, filename, status, transcript, error_message, attempts, created_at, updated_at`

func (s *implStore) Create(ctx context.Context, e *Entry) error {
	_, err := s.db.ExecContext(ctx, `
		insert into entries (id, title, source_type, source_url, file_ref, filename, status, attempts, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $6, $7, 0, now(), now())
	`, e.ID, e.Title, e.SourceType, e.SourceURL, e.FileRef, e.Filename, e.Status)
	return err
}

func (s *implStore) FetchNewDownloads(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+entryColumns+`
		from entries
		where status = $1 and source_type = $2 and source_url is not null
		order by created_at
		limit $3
	`, StatusNew, SourceURL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *implStore) StageUploads(ctx context.Context, limit int) ([]Entry, error) {
	// Single-statement claim: selecting and flipping in one update keeps
	// two workers from staging the same upload.
	rows, err := s.db.QueryContext(ctx, `
		with staged as (
			update entries
			set status = $1, error_message = null, updated_at = now()
			where id in (
				select id from entries
				where status = $2 and source_type = $3 and file_ref is not null
				order by created_at
				limit $4
			) and status = $2
			returning `+entryColumns+`
		)
		select `+entryColumns+` from staged order by created_at
	`, StatusInProgress, StatusNew, SourceUpload, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *implStore) FetchInProgress(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+entryColumns+`
		from entries
		where status = $1 and file_ref is not null
		order by created_at
		limit $2
	`, StatusInProgress, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *implStore) ClaimForProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		update entries
		set status = $1, error_message = null, updated_at = now()
		where id = $2 and status = $3
	`, StatusInProgress, id, StatusNew)
	if err != nil {
		return false, err
	}
	return oneRow(res)
}

func (s *implStore) SetFileReference(ctx context.Context, id uuid.UUID, fileRef, filename string) error {
	_, err := s.db.ExecContext(ctx, `
		update entries
		set file_ref = $1, filename = $2, updated_at = now()
		where id = $3
	`, fileRef, filename, id)
	return err
}

func (s *implStore) MarkReady(ctx context.Context, id uuid.UUID, transcript string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		update entries
		set status = $1, transcript = $2, error_message = null, attempts = 0, updated_at = now()
		where id = $3 and status = $4
	`, StatusReady, transcript, id, StatusInProgress)
	if err != nil {
		return false, err
	}
	return oneRow(res)
}

func (s *implStore) Requeue(ctx context.Context, id uuid.UUID, errorMessage string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		update entries
		set status = $1, error_message = $2, attempts = attempts + 1, updated_at = now()
		where id = $3 and status = $4
	`, StatusNew, errorMessage, id, StatusInProgress)
	if err != nil {
		return false, err
	}
	return oneRow(res)
}

func (s *implStore) Fail(ctx context.Context, id uuid.UUID, errorMessage string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		update entries
		set status = $1, error_message = $2, updated_at = now()
		where id = $3 and status in ($4, $5)
	`, StatusError, errorMessage, id, StatusInProgress, StatusNew)
	if err != nil {
		return false, err
	}
	return oneRow(res)
}

func oneRow(res sql.Result) (bool, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			e            Entry
			sourceURL    sql.NullString
			fileRef      sql.NullString
			filename     sql.NullString
			transcript   sql.NullString
			errorMessage sql.NullString
		)
		if err := rows.Scan(
			&e.ID, &e.Title, &e.SourceType, &sourceURL, &fileRef, &filename,
			&e.Status, &transcript, &errorMessage, &e.Attempts, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		e.SourceURL = fromNull(sourceURL)
		e.FileRef = fromNull(fileRef)
		e.Filename = fromNull(filename)
		e.Transcript = fromNull(transcript)
		e.ErrorMessage = fromNull(errorMessage)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func fromNull(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
