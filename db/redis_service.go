package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"academia-server-go/models"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	institutionKey   = "institution" // Hash: institution name
	programsKey      = "programs"    // List: program names in insertion order
	programPrefix    = "program:"    // List prefix: program:{name}:courses -> course names
	coursePrefix     = "course:"     // Hash prefix: course:{program}:{name} -> course details
	studentsKey      = "students"    // List: control numbers in insertion order
	studentPrefix    = "student:"    // Hash prefix: student:{control} and student:{control}:grades
	professorsKey    = "professors"  // List: national IDs in insertion order
	professorPrefix  = "professor:"  // Hash prefix: professor:{curp}
	finalGradeField  = "finalGrade"
	programNameField = "programName"
	controlNumField  = "controlNumber"
	courseNameField  = "courseName"
	nameField        = "name"
)

// RedisService stores institution snapshots in Redis
type RedisService struct {
	Client *redis.Client
}

// NewRedisService creates a new RedisService instance
func NewRedisService(client *redis.Client) *RedisService {
	return &RedisService{Client: client}
}

func getProgramCoursesKey(program string) string {
	return programPrefix + program + ":courses"
}

func getCourseKey(program, course string) string {
	return coursePrefix + program + ":" + course
}

func getStudentKey(control string) string {
	return studentPrefix + control
}

func getStudentGradesKey(control string) string {
	return studentPrefix + control + ":grades"
}

func getProfessorKey(curp string) string {
	return professorPrefix + curp
}

func formatGrade(g float64) string {
	return strconv.FormatFloat(g, 'f', -1, 64)
}

// HasSnapshot reports whether an institution has been saved
func (s *RedisService) HasSnapshot(ctx context.Context) (bool, error) {
	n, err := s.Client.Exists(ctx, institutionKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check snapshot: %w", err)
	}
	return n > 0, nil
}

// snapshotKeys lists every key of the currently stored snapshot
func (s *RedisService) snapshotKeys(ctx context.Context) ([]string, error) {
	keys := []string{institutionKey, programsKey, studentsKey, professorsKey}

	programs, err := s.Client.LRange(ctx, programsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	for _, p := range programs {
		coursesKey := getProgramCoursesKey(p)
		courses, err := s.Client.LRange(ctx, coursesKey, 0, -1).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to list courses of %s: %w", p, err)
		}
		keys = append(keys, coursesKey)
		for _, c := range courses {
			keys = append(keys, getCourseKey(p, c))
		}
	}

	students, err := s.Client.LRange(ctx, studentsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	for _, c := range students {
		keys = append(keys, getStudentKey(c), getStudentGradesKey(c))
	}

	professors, err := s.Client.LRange(ctx, professorsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list professors: %w", err)
	}
	for _, c := range professors {
		keys = append(keys, getProfessorKey(c))
	}
	return keys, nil
}

// --- Snapshot Operations ---

// SaveInstitution replaces the stored snapshot with inst in one transaction
func (s *RedisService) SaveInstitution(ctx context.Context, inst *models.Institution) error {
	if inst == nil || inst.Name == "" {
		return errors.New("institution name cannot be empty")
	}
	stale, err := s.snapshotKeys(ctx)
	if err != nil {
		return err
	}

	pipe := s.Client.TxPipeline()
	pipe.Del(ctx, stale...)
	pipe.HSet(ctx, institutionKey, nameField, inst.Name)

	for _, p := range inst.Programs {
		pipe.RPush(ctx, programsKey, p.Name)
		for _, c := range p.Courses {
			pipe.RPush(ctx, getProgramCoursesKey(p.Name), c.Name)
			fields := map[string]interface{}{
				nameField:        c.Name,
				programNameField: c.ProgramName,
			}
			if c.FinalGrade != nil {
				fields[finalGradeField] = formatGrade(*c.FinalGrade)
			}
			pipe.HSet(ctx, getCourseKey(p.Name, c.Name), fields)
		}
	}

	for _, st := range inst.Students {
		pipe.RPush(ctx, studentsKey, st.ControlNumber)
		pipe.HSet(ctx, getStudentKey(st.ControlNumber), map[string]interface{}{
			nameField:        st.Name,
			controlNumField:  st.ControlNumber,
			programNameField: st.ProgramName,
			"age":            st.Age,
		})
		// The grade hash is rewritten, never merged, so grades written by
		// SaveGrade for an earlier holder of this control number cannot survive.
		pipe.Del(ctx, getStudentGradesKey(st.ControlNumber))
		if len(st.Grades) > 0 {
			grades := make(map[string]interface{}, len(st.Grades))
			for course, g := range st.Grades {
				grades[course] = formatGrade(g)
			}
			pipe.HSet(ctx, getStudentGradesKey(st.ControlNumber), grades)
		}
	}

	for _, p := range inst.Professors {
		pipe.RPush(ctx, professorsKey, p.CURP)
		pipe.HSet(ctx, getProfessorKey(p.CURP), map[string]interface{}{
			nameField:        p.Name,
			courseNameField:  p.CourseName,
			programNameField: p.ProgramName,
			"age":            p.Age,
			"curp":           p.CURP,
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		zap.L().Error("saving institution failed", zap.String("institution", inst.Name), zap.Error(err))
		return fmt.Errorf("failed to save institution to Redis: %w", err)
	}
	zap.L().Info("saved institution",
		zap.String("institution", inst.Name),
		zap.Int("programs", len(inst.Programs)),
		zap.Int("students", len(inst.Students)),
		zap.Int("professors", len(inst.Professors)),
	)
	return nil
}

// SaveGrade writes a single grade into a stored student's grade hash. Students
// missing from the stored snapshot yield models.ErrNotFound; their grades are
// persisted by the next SaveInstitution.
func (s *RedisService) SaveGrade(ctx context.Context, controlNumber, course string, grade float64) error {
	n, err := s.Client.Exists(ctx, getStudentKey(controlNumber)).Result()
	if err != nil {
		return fmt.Errorf("failed to check student %s: %w", controlNumber, err)
	}
	if n == 0 {
		return fmt.Errorf("stored student %s: %w", controlNumber, models.ErrNotFound)
	}
	if err := s.Client.HSet(ctx, getStudentGradesKey(controlNumber), course, formatGrade(grade)).Err(); err != nil {
		return fmt.Errorf("failed to save grade for %s: %w", controlNumber, err)
	}
	return nil
}

// LoadInstitution rebuilds the stored institution. It returns models.ErrNotFound
// when nothing has been saved.
func (s *RedisService) LoadInstitution(ctx context.Context) (*models.Institution, error) {
	name, err := s.Client.HGet(ctx, institutionKey, nameField).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("institution snapshot: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get institution from Redis: %w", err)
	}

	inst, err := models.NewInstitution(name)
	if err != nil {
		return nil, err
	}
	if err := s.loadPrograms(ctx, inst); err != nil {
		return nil, err
	}
	if err := s.loadStudents(ctx, inst); err != nil {
		return nil, err
	}
	if err := s.loadProfessors(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

func (s *RedisService) loadPrograms(ctx context.Context, inst *models.Institution) error {
	names, err := s.Client.LRange(ctx, programsKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to get programs from Redis: %w", err)
	}
	for _, name := range names {
		p, err := models.NewProgram(name)
		if err != nil {
			return err
		}
		if err := inst.AddProgram(p); err != nil {
			return err
		}

		courses, err := s.Client.LRange(ctx, getProgramCoursesKey(name), 0, -1).Result()
		if err != nil {
			return fmt.Errorf("failed to get courses of %s from Redis: %w", name, err)
		}
		for _, courseName := range courses {
			c, err := models.NewCourse(courseName, p)
			if err != nil {
				return err
			}
			raw, err := s.Client.HGet(ctx, getCourseKey(name, courseName), finalGradeField).Result()
			switch {
			case errors.Is(err, redis.Nil):
			case err != nil:
				return fmt.Errorf("failed to get course %s from Redis: %w", courseName, err)
			default:
				g, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return fmt.Errorf("invalid final grade for course %s: %w", courseName, err)
				}
				c.SetFinalGrade(g)
			}
			if err := p.AddCourse(c); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *RedisService) loadStudents(ctx context.Context, inst *models.Institution) error {
	controls, err := s.Client.LRange(ctx, studentsKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to get students from Redis: %w", err)
	}
	for _, control := range controls {
		data, err := s.Client.HGetAll(ctx, getStudentKey(control)).Result()
		if err != nil {
			return fmt.Errorf("failed to get student %s from Redis: %w", control, err)
		}
		if len(data) == 0 {
			zap.L().Warn("student listed but not stored, skipping", zap.String("controlNumber", control))
			continue
		}
		age, err := strconv.Atoi(data["age"])
		if err != nil {
			return fmt.Errorf("invalid age for student %s: %w", control, err)
		}
		st, err := models.NewStudent(data[nameField], control, age)
		if err != nil {
			return err
		}
		if programName := data[programNameField]; programName != "" {
			p, err := inst.FindProgram(programName)
			if err != nil {
				return fmt.Errorf("student %s: %w", control, err)
			}
			st.AssignProgram(p)
		}

		grades, err := s.Client.HGetAll(ctx, getStudentGradesKey(control)).Result()
		if err != nil {
			return fmt.Errorf("failed to get grades of %s from Redis: %w", control, err)
		}
		for course, raw := range grades {
			g, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("invalid grade for %s in %s: %w", control, course, err)
			}
			st.Grades[course] = g
		}

		if err := inst.AddStudent(st); err != nil {
			return err
		}
	}
	return nil
}

func (s *RedisService) loadProfessors(ctx context.Context, inst *models.Institution) error {
	ids, err := s.Client.LRange(ctx, professorsKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to get professors from Redis: %w", err)
	}
	for _, curp := range ids {
		data, err := s.Client.HGetAll(ctx, getProfessorKey(curp)).Result()
		if err != nil {
			return fmt.Errorf("failed to get professor %s from Redis: %w", curp, err)
		}
		if len(data) == 0 {
			zap.L().Warn("professor listed but not stored, skipping", zap.String("curp", curp))
			continue
		}
		course, err := inst.FindCourse(data[programNameField], data[courseNameField])
		if err != nil {
			return fmt.Errorf("professor %s: %w", curp, err)
		}
		age, err := strconv.Atoi(data["age"])
		if err != nil {
			return fmt.Errorf("invalid age for professor %s: %w", curp, err)
		}
		p, err := models.NewProfessor(data[nameField], course, age, curp)
		if err != nil {
			return err
		}
		if err := inst.AddProfessor(p); err != nil {
			return err
		}
	}
	return nil
}

// --- Utility ---

// InitializeRedisClient creates a Redis client and pings it
func InitializeRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", addr, err)
	}

	zap.L().Info("connected to Redis", zap.String("addr", addr), zap.Int("db", db))
	return rdb, nil
}
