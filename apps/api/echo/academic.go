package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/academic"
	"github.com/trezcool/campus/core/user"
)

type classApi struct {
	svc *academic.Service
}

func registerClassAPI(g *echo.Group, svc *academic.Service) {
	api := classApi{svc: svc}

	cg := g.Group("/classes")
	cg.GET("", api.query)
	cg.GET("/:classId/students", api.queryStudents)

	tg := g.Group("/teacher")
	tg.POST("/subjects", api.createSubject)
	tg.POST("/exams", api.createExam)
}

func (api *classApi) query(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	classes, err := api.svc.QueryClasses(ctx.Request().Context(), p)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ok(ctx, classes)
}

func (api *classApi) queryStudents(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	students, err := api.svc.QueryClassStudents(ctx.Request().Context(), p, ctx.Param("classId"))
	if err != nil {
		return errors.Wrap(err, "querying class students")
	}
	return ok(ctx, students)
}

func (api *classApi) createSubject(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data academic.NewSubject
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}

	subject, err := api.svc.CreateSubject(ctx.Request().Context(), p, data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return created(ctx, subject)
}

func (api *classApi) createExam(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data academic.NewExam
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExam")
	}

	exam, err := api.svc.CreateExam(ctx.Request().Context(), p, data)
	if err != nil {
		return errors.Wrap(err, "creating exam")
	}
	return created(ctx, exam)
}

type adminApi struct {
	academicSvc *academic.Service
	userSvc     *user.Service
}

func registerAdminAPI(g *echo.Group, academicSvc *academic.Service, userSvc *user.Service) {
	api := adminApi{academicSvc: academicSvc, userSvc: userSvc}

	ag := g.Group("/admin")
	ag.POST("/classes", api.createClass)
	ag.POST("/classes/:classId/teachers", api.assignTeacher)
	ag.POST("/students", api.createStudent)
	ag.POST("/enrollments", api.enroll)
	ag.GET("/users", api.queryUsers)
	ag.PUT("/users/:id/role", api.assignRole)
}

func (api *adminApi) createClass(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data academic.NewClass
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}

	class, err := api.academicSvc.CreateClass(ctx.Request().Context(), p, data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return created(ctx, class)
}

func (api *adminApi) assignTeacher(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data academic.NewClassTeacher
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClassTeacher")
	}

	ct, err := api.academicSvc.AssignTeacher(ctx.Request().Context(), p, ctx.Param("classId"), data)
	if err != nil {
		return errors.Wrap(err, "assigning teacher")
	}
	return created(ctx, ct)
}

func (api *adminApi) createStudent(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data academic.NewStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}

	student, err := api.academicSvc.CreateStudent(ctx.Request().Context(), p, data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return created(ctx, student)
}

func (api *adminApi) enroll(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data academic.NewEnrollment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEnrollment")
	}

	enr, err := api.academicSvc.CreateEnrollment(ctx.Request().Context(), p, data)
	if err != nil {
		return errors.Wrap(err, "enrolling student")
	}
	return created(ctx, enr)
}

func (api *adminApi) queryUsers(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var filter user.QueryFilter
	if err = bindQuery(ctx, &filter); err != nil {
		return errors.Wrap(err, "binding to user.QueryFilter")
	}

	profs, err := api.userSvc.Filter(ctx.Request().Context(), p, filter)
	if err != nil {
		return errors.Wrap(err, "filtering users")
	}
	return ok(ctx, profs)
}

func (api *adminApi) assignRole(ctx echo.Context) error {
	p, err := getPrincipal(ctx)
	if err != nil {
		return err
	}
	var data user.UpdateRole
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRole")
	}

	prof, err := api.userSvc.AssignRole(ctx.Request().Context(), p, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "assigning role")
	}
	return ok(ctx, prof)
}
