package routes

import (
	"asistencia-escolar/internal/events"
	"asistencia-escolar/internal/handlers"
	"asistencia-escolar/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerAPIRoutes(rg *gin.RouterGroup, hub *events.Hub) {
	api := rg.Group("/api")

	users := api.Group("/users")
	{
		users.GET("", middleware.PermissionMiddleware("usuarios_ver"), handlers.ListUsersHandler)
		users.GET("/:id", middleware.PermissionMiddleware("usuarios_ver"), handlers.GetUserHandler)
		users.POST("", middleware.PermissionMiddleware("usuarios_crear"), handlers.CreateUserHandler)
		users.PUT("/:id", middleware.PermissionMiddleware("usuarios_editar"), handlers.UpdateUserHandler)
		users.DELETE("/:id", middleware.PermissionMiddleware("usuarios_eliminar"), handlers.DeleteUserHandler)
	}

	roles := api.Group("/roles")
	{
		roles.GET("", middleware.PermissionMiddleware("roles_ver"), handlers.ListRolesHandler)
		roles.POST("", middleware.PermissionMiddleware("roles_crear"), handlers.CreateRoleHandler)
		roles.PUT("/:id", middleware.PermissionMiddleware("roles_editar"), handlers.UpdateRoleHandler)
		roles.DELETE("/:id", middleware.PermissionMiddleware("roles_eliminar"), handlers.DeleteRoleHandler)
	}
	api.GET("/permissions", middleware.PermissionMiddleware("permisos_ver"), handlers.ListPermissionsHandler)

	departments := api.Group("/departments")
	{
		departments.GET("", handlers.ListDepartmentsHandler)
		departments.POST("", middleware.PermissionMiddleware("departamentos_crear"), handlers.CreateDepartmentHandler)
		departments.PUT("/:id", middleware.PermissionMiddleware("departamentos_editar"), handlers.UpdateDepartmentHandler)
		departments.DELETE("/:id", middleware.PermissionMiddleware("departamentos_eliminar"), handlers.DeleteDepartmentHandler)
	}

	sections := api.Group("/sections")
	{
		sections.GET("", middleware.PermissionMiddleware("secciones_ver"), handlers.ListSectionsHandler)
		sections.GET("/:id", middleware.PermissionMiddleware("secciones_ver"), handlers.GetSectionHandler)
		sections.POST("", middleware.PermissionMiddleware("secciones_crear"), handlers.CreateSectionHandler)
		sections.PUT("/:id", middleware.PermissionMiddleware("secciones_editar"), handlers.UpdateSectionHandler)
		sections.DELETE("/:id", middleware.PermissionMiddleware("secciones_eliminar"), handlers.DeleteSectionHandler)
		sections.GET("/:id/roster/export", middleware.PermissionMiddleware("secciones_ver"), handlers.ExportSectionRosterHandler)
	}

	students := api.Group("/students")
	{
		students.GET("", middleware.PermissionMiddleware("estudiantes_ver"), handlers.ListStudentsHandler)
		students.GET("/:id", middleware.PermissionMiddleware("estudiantes_ver"), handlers.GetStudentHandler)
		students.POST("", middleware.PermissionMiddleware("estudiantes_crear"), handlers.CreateStudentHandler)
		students.PUT("/:id", middleware.PermissionMiddleware("estudiantes_editar"), handlers.UpdateStudentHandler)
		students.DELETE("/:id", middleware.PermissionMiddleware("estudiantes_eliminar"), handlers.DeleteStudentHandler)
	}

	subjects := api.Group("/subjects")
	{
		subjects.GET("", middleware.PermissionMiddleware("asignaturas_ver"), handlers.ListSubjectsHandler)
		subjects.POST("", middleware.PermissionMiddleware("asignaturas_crear"), handlers.CreateSubjectHandler)
		subjects.PUT("/:id", middleware.PermissionMiddleware("asignaturas_editar"), handlers.UpdateSubjectHandler)
		subjects.DELETE("/:id", middleware.PermissionMiddleware("asignaturas_eliminar"), handlers.DeleteSubjectHandler)
	}

	schedule := api.Group("/schedule")
	{
		schedule.GET("", middleware.PermissionMiddleware("horarios_ver"), handlers.ListScheduleHandler)
		schedule.GET("/today", handlers.TodayScheduleHandler)
		schedule.GET("/current", handlers.CurrentBlocksHandler)
		schedule.POST("", middleware.PermissionMiddleware("horarios_crear"), handlers.CreateClassBlockHandler)
		schedule.PUT("/:id", middleware.PermissionMiddleware("horarios_editar"), handlers.UpdateClassBlockHandler)
		schedule.DELETE("/:id", middleware.PermissionMiddleware("horarios_eliminar"), handlers.DeleteClassBlockHandler)
	}

	// El reporte de asistencia es la operación central: cualquier usuario
	// autenticado puede intentarlo, el alcance fino se valida en el handler.
	attendance := api.Group("/attendance")
	{
		attendance.POST("", handlers.SaveAttendanceHandler)
		attendance.GET("", handlers.GetAttendanceHandler)
		attendance.GET("/record/:id", handlers.GetAttendanceByIDHandler)
	}

	personnel := api.Group("/personnel-attendance")
	{
		personnel.GET("", middleware.PermissionMiddleware("personal_asistencia_ver"), handlers.ListPersonnelDayHandler)
		personnel.POST("", middleware.PermissionMiddleware("personal_asistencia_registrar"), handlers.SavePersonnelAttendanceHandler)
		personnel.DELETE("/:id", middleware.PermissionMiddleware("personal_asistencia_registrar"), handlers.ClearPersonnelAttendanceHandler)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/daily", handlers.DailySummaryHandler)
		reports.GET("/daily/export", middleware.PermissionMiddleware("reportes_exportar"), handlers.ExportDailySummaryHandler)
	}

	imports := api.Group("/import")
	{
		imports.POST("/roster", middleware.PermissionMiddleware("estudiantes_importar"), handlers.PreviewRosterImportHandler)
		imports.POST("/roster/commit", middleware.PermissionMiddleware("estudiantes_importar"), handlers.CommitRosterImportHandler)
		imports.POST("/personnel", middleware.PermissionMiddleware("usuarios_importar"), handlers.PreviewPersonnelImportHandler)
		imports.POST("/personnel/commit", middleware.PermissionMiddleware("usuarios_importar"), handlers.CommitPersonnelImportHandler)
	}

	api.GET("/events/ws", hub.ServeWS)
}
