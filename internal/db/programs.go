package db

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/college-recommender/internal/types"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var programColumns = []string{
	"c.college_id", "c.name AS college_name", "c.location", "c.college_type",
	"c.contact_number", "c.email", "c.hostel_available", "c.latitude", "c.longitude",
	"d.department_id", "d.name AS department_name",
	"co.course_id", "co.name AS course_name", "co.average_cutoff_rank", "co.fee",
	"co.total_seats", "co.faculty_to_student_ratio", "co.pass_percentage",
	"co.has_internship", "co.scholarship_percent", "co.duration_in_years",
	"co.admission_process", "co.rating",
}

// programsFrom joins colleges to their courses; colleges without any course are excluded.
func programsFrom(b sq.SelectBuilder) sq.SelectBuilder {
	return b.From("colleges c").
		LeftJoin("departments d ON d.college_id = c.college_id").
		LeftJoin("courses co ON co.department_id = d.department_id").
		Where(sq.NotEq{"co.course_id": nil})
}

// applyFilter adds the filter's WHERE clauses. Values within one list are
// OR'ed; lists are AND'ed, except courses and departments which form one group.
func applyFilter(b sq.SelectBuilder, f types.ProgramFilter) sq.SelectBuilder {
	if cond := ilikeAny("c.name", f.CollegeNames); cond != nil {
		b = b.Where(cond)
	}
	if cond := ilikeAny("c.location", f.Locations); cond != nil {
		b = b.Where(cond)
	}

	courseOrDept := sq.Or{}
	for _, course := range f.Courses {
		courseOrDept = append(courseOrDept, sq.ILike{"co.name": likePattern(course)})
	}
	for _, dept := range f.Departments {
		courseOrDept = append(courseOrDept, sq.ILike{"d.name": likePattern(dept)})
	}
	if len(courseOrDept) > 0 {
		b = b.Where(courseOrDept)
	}

	if len(f.CollegeTypes) > 0 {
		b = b.Where(sq.Eq{"c.college_type": f.CollegeTypes})
	}
	if f.HostelRequired {
		b = b.Where(sq.Eq{"c.hostel_available": true})
	}
	if f.MaxFee != nil {
		b = b.Where(sq.LtOrEq{"co.fee": *f.MaxFee})
	}
	return b
}

func ilikeAny(column string, values []string) sq.Sqlizer {
	if len(values) == 0 {
		return nil
	}
	or := make(sq.Or, 0, len(values))
	for _, v := range values {
		or = append(or, sq.ILike{column: likePattern(v)})
	}
	return or
}

// likePattern wraps v in wildcards, escaping LIKE metacharacters so user text matches literally.
func likePattern(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(v) + "%"
}

func orderBy(order types.ProgramOrder) []string {
	switch order {
	case types.OrderByFeeAsc:
		return []string{"co.fee ASC NULLS LAST", "c.name", "co.course_id"}
	case types.OrderByRatingDesc:
		return []string{"co.rating DESC NULLS LAST", "c.name", "co.course_id"}
	default:
		return []string{"c.name", "d.name", "co.name", "co.course_id"}
	}
}

// buildProgramsQuery renders the joined program query for f.
func buildProgramsQuery(f types.ProgramFilter) (string, []any, error) {
	b := programsFrom(psql.Select(programColumns...))
	b = applyFilter(b, f).OrderBy(orderBy(f.Order)...)
	return b.ToSql()
}

// buildCountQuery renders a COUNT over the same join and filter.
func buildCountQuery(f types.ProgramFilter) (string, []any, error) {
	return applyFilter(programsFrom(psql.Select("COUNT(*)")), f).ToSql()
}

// ListPrograms returns the joined program rows matching f.
func (db *DB) ListPrograms(ctx context.Context, f types.ProgramFilter) ([]types.RawProgram, error) {
	query, args, err := buildProgramsQuery(f)
	if err != nil {
		return nil, fmt.Errorf("failed to build programs query: %w", err)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	defer rows.Close()

	var programs []types.RawProgram
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan program row: %w", err)
		}
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate program rows: %w", err)
	}
	return programs, nil
}

// CountPrograms counts the program rows matching f.
func (db *DB) CountPrograms(ctx context.Context, f types.ProgramFilter) (int, error) {
	query, args, err := buildCountQuery(f)
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := db.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count programs: %w", err)
	}
	return int(count), nil
}

func scanProgram(rows pgx.Rows) (types.RawProgram, error) {
	var (
		p          types.RawProgram
		collegeID  int64
		deptID     *int64
		courseID   int64
		durationYr *int32
	)
	err := rows.Scan(
		&collegeID, &p.CollegeName, &p.Location, &p.CollegeType,
		&p.ContactNumber, &p.Email, &p.HostelAvailable, &p.Latitude, &p.Longitude,
		&deptID, &p.DepartmentName,
		&courseID, &p.CourseName, &p.AverageCutoffRank, &p.Fee,
		&p.TotalSeats, &p.FacultyToStudentRatio, &p.PassPercentage,
		&p.HasInternship, &p.ScholarshipPercent, &durationYr,
		&p.AdmissionProcess, &p.Rating,
	)
	if err != nil {
		return p, err
	}

	p.CollegeID = collegeID
	p.CourseID = courseID
	if deptID != nil {
		p.DepartmentID = *deptID
	}
	if durationYr != nil {
		d := int(*durationYr)
		p.DurationInYears = &d
	}
	return p, nil
}

// Name implements programs.Source.
func (db *DB) Name() string { return "postgres" }

// LoadRows implements programs.Source, returning every program ordered by name.
func (db *DB) LoadRows(ctx context.Context) ([]types.RawProgram, error) {
	return db.ListPrograms(ctx, types.ProgramFilter{})
}

// ImportPrograms upserts flat program rows into the normalized tables in one
// transaction. It returns the number of course rows written.
func (db *DB) ImportPrograms(ctx context.Context, rows []types.RawProgram) (int, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for i := range rows {
		r := &rows[i]
		batch.Queue(
			`INSERT INTO colleges (college_id, name, location, college_type, contact_number, email,
			                       hostel_available, latitude, longitude)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 ON CONFLICT (college_id) DO UPDATE SET
			     name = $2, location = $3, college_type = $4, contact_number = $5, email = $6,
			     hostel_available = $7, latitude = $8, longitude = $9`,
			r.CollegeID, r.CollegeName, r.Location, r.CollegeType, r.ContactNumber, r.Email,
			r.HostelAvailable, r.Latitude, r.Longitude,
		)
		batch.Queue(
			`INSERT INTO departments (department_id, college_id, name)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (department_id) DO UPDATE SET college_id = $2, name = $3`,
			r.DepartmentID, r.CollegeID, r.DepartmentName,
		)
		batch.Queue(
			`INSERT INTO courses (course_id, department_id, name, average_cutoff_rank, fee, total_seats,
			                      faculty_to_student_ratio, pass_percentage, has_internship,
			                      scholarship_percent, duration_in_years, admission_process, rating)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			 ON CONFLICT (course_id) DO UPDATE SET
			     department_id = $2, name = $3, average_cutoff_rank = $4, fee = $5, total_seats = $6,
			     faculty_to_student_ratio = $7, pass_percentage = $8, has_internship = $9,
			     scholarship_percent = $10, duration_in_years = $11, admission_process = $12, rating = $13`,
			r.CourseID, r.DepartmentID, r.CourseName, r.AverageCutoffRank, r.Fee, r.TotalSeats,
			r.FacultyToStudentRatio, r.PassPercentage, r.HasInternship,
			r.ScholarshipPercent, r.DurationInYears, r.AdmissionProcess, r.Rating,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("failed to import programs: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit program import: %w", err)
	}
	return len(rows), nil
}
