package school

import (
	"strconv"

	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/models"
	"mealprogram-backend/internal/shared"

	"github.com/gofiber/fiber/v2"
)

// Grades, classrooms, teachers and students share the same shape of CRUD:
// school-scoped list, admin-gated mutation.

type gradeRequest struct {
	SchoolID *uint  `json:"school_id"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
}

// POST /api/grades (admin)
func CreateGradeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body gradeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" || body.Level <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "name and a positive level are required")
		}
		schoolID, err := shared.ResolveSchoolIDFromBodyOrRole(c, body.SchoolID)
		if err != nil {
			return err
		}

		grade := models.Grade{SchoolID: schoolID, Name: body.Name, Level: body.Level}
		if err := database.DB.Create(&grade).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create grade")
		}
		return c.Status(fiber.StatusCreated).JSON(grade)
	}
}

// GET /api/grades
func ListGradesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}
		var grades []models.Grade
		if err := database.DB.Where("school_id = ?", schoolID).Order("level").Find(&grades).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list grades")
		}
		return c.JSON(grades)
	}
}

// DELETE /api/grades/:id (admin)
func DeleteGradeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid grade id")
		}
		var count int64
		database.DB.Model(&models.Classroom{}).Where("grade_id = ?", uint(id)).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Grade still has classrooms")
		}
		if err := database.DB.Delete(&models.Grade{}, uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete grade")
		}
		return c.JSON(fiber.Map{"status": "deleted"})
	}
}

type classroomRequest struct {
	SchoolID  *uint  `json:"school_id"`
	GradeID   uint   `json:"grade_id"`
	Name      string `json:"name"`
	TeacherID *uint  `json:"teacher_id"`
}

// POST /api/classrooms (admin)
func CreateClassroomHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body classroomRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" || body.GradeID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "name and grade_id are required")
		}
		schoolID, err := shared.ResolveSchoolIDFromBodyOrRole(c, body.SchoolID)
		if err != nil {
			return err
		}

		var grade models.Grade
		if err := database.DB.Where("id = ? AND school_id = ?", body.GradeID, schoolID).First(&grade).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Grade not found in this school")
		}

		room := models.Classroom{SchoolID: schoolID, GradeID: body.GradeID, Name: body.Name, TeacherID: body.TeacherID}
		if err := database.DB.Create(&room).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create classroom")
		}
		return c.Status(fiber.StatusCreated).JSON(room)
	}
}

// GET /api/classrooms
func ListClassroomsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}
		var rooms []models.Classroom
		if err := database.DB.Preload("Grade").
			Where("school_id = ?", schoolID).Order("name").Find(&rooms).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list classrooms")
		}
		return c.JSON(rooms)
	}
}

// PUT /api/classrooms/:id (admin)
func UpdateClassroomHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid classroom id")
		}
		var room models.Classroom
		if err := database.DB.First(&room, "id = ?", uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Classroom not found")
		}

		var body classroomRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name != "" {
			room.Name = body.Name
		}
		if body.GradeID != 0 {
			room.GradeID = body.GradeID
		}
		room.TeacherID = body.TeacherID

		if err := database.DB.Save(&room).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update classroom")
		}
		return c.JSON(room)
	}
}

// DELETE /api/classrooms/:id (admin)
func DeleteClassroomHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid classroom id")
		}
		var count int64
		database.DB.Model(&models.Student{}).Where("classroom_id = ?", uint(id)).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Classroom still has students")
		}
		if err := database.DB.Delete(&models.Classroom{}, uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete classroom")
		}
		return c.JSON(fiber.Map{"status": "deleted"})
	}
}

type teacherRequest struct {
	SchoolID *uint  `json:"school_id"`
	Name     string `json:"name"`
	NIP      string `json:"nip"`
	Phone    string `json:"phone"`
}

// POST /api/teachers (admin)
func CreateTeacherHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body teacherRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		schoolID, err := shared.ResolveSchoolIDFromBodyOrRole(c, body.SchoolID)
		if err != nil {
			return err
		}

		teacher := models.Teacher{SchoolID: schoolID, Name: body.Name, NIP: body.NIP, Phone: body.Phone}
		if err := database.DB.Create(&teacher).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create teacher")
		}
		return c.Status(fiber.StatusCreated).JSON(teacher)
	}
}

// GET /api/teachers
func ListTeachersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}
		var teachers []models.Teacher
		if err := database.DB.Where("school_id = ?", schoolID).Order("name").Find(&teachers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list teachers")
		}
		return c.JSON(teachers)
	}
}

// DELETE /api/teachers/:id (admin)
func DeleteTeacherHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid teacher id")
		}
		// homeroom references are cleared, not blocked
		database.DB.Model(&models.Classroom{}).Where("teacher_id = ?", uint(id)).Update("teacher_id", nil)
		if err := database.DB.Delete(&models.Teacher{}, uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete teacher")
		}
		return c.JSON(fiber.Map{"status": "deleted"})
	}
}

type studentRequest struct {
	SchoolID    *uint  `json:"school_id"`
	ClassroomID uint   `json:"classroom_id"`
	Name        string `json:"name"`
	NISN        string `json:"nisn"`
	Gender      string `json:"gender"`
	Active      *bool  `json:"active"`
}

// POST /api/students (admin)
func CreateStudentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body studentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" || body.ClassroomID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "name and classroom_id are required")
		}
		schoolID, err := shared.ResolveSchoolIDFromBodyOrRole(c, body.SchoolID)
		if err != nil {
			return err
		}

		var room models.Classroom
		if err := database.DB.Where("id = ? AND school_id = ?", body.ClassroomID, schoolID).First(&room).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Classroom not found in this school")
		}

		student := models.Student{
			SchoolID:    schoolID,
			ClassroomID: body.ClassroomID,
			Name:        body.Name,
			NISN:        body.NISN,
			Gender:      body.Gender,
			Active:      true,
		}
		if body.Active != nil {
			student.Active = *body.Active
		}
		if err := database.DB.Create(&student).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create student")
		}
		return c.Status(fiber.StatusCreated).JSON(student)
	}
}

// GET /api/students?classroom_id=&active=
func ListStudentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("school_id = ?", schoolID).Order("name")
		if cid := c.Query("classroom_id"); cid != "" {
			q = q.Where("classroom_id = ?", cid)
		}
		if active := c.Query("active"); active != "" {
			q = q.Where("active = ?", active == "true")
		}

		var students []models.Student
		if err := q.Find(&students).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list students")
		}
		return c.JSON(students)
	}
}

// PUT /api/students/:id (admin)
func UpdateStudentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid student id")
		}
		var student models.Student
		if err := database.DB.First(&student, "id = ?", uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}

		var body studentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name != "" {
			student.Name = body.Name
		}
		if body.ClassroomID != 0 {
			student.ClassroomID = body.ClassroomID
		}
		if body.NISN != "" {
			student.NISN = body.NISN
		}
		if body.Gender != "" {
			student.Gender = body.Gender
		}
		if body.Active != nil {
			student.Active = *body.Active
		}

		if err := database.DB.Save(&student).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update student")
		}
		return c.JSON(student)
	}
}

// DELETE /api/students/:id (admin)
func DeleteStudentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid student id")
		}
		if err := database.DB.Delete(&models.Student{}, uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete student")
		}
		return c.JSON(fiber.Map{"status": "deleted"})
	}
}
