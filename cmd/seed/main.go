package main

import (
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"crmdesk/internal/config"
	"crmdesk/internal/database"
	"crmdesk/internal/domain"
	"crmdesk/internal/logging"
	"crmdesk/internal/pkg/utils"
)

const (
	adminEmail    = "admin@crmdesk.local"
	employeeEmail = "employee@crmdesk.local"
	demoPassword  = "Demo@1234"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config load failed")
	}
	log := logging.New(cfg.LogLevel, false)

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("database migrate failed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), cfg.BcryptCost)
	if err != nil {
		log.WithError(err).Fatal("hash password")
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return seed(tx, string(hash))
	}); err != nil {
		log.WithError(err).Fatal("seed failed")
	}

	log.WithFields(logrus.Fields{
		"admin":    adminEmail,
		"employee": employeeEmail,
		"password": demoPassword,
	}).Info("demo workspace ready")
}

func seed(tx *gorm.DB, passwordHash string) error {
	// Remove an earlier demo workspace so the seeder can be re-run.
	var previous domain.User
	if err := tx.Where("email = ?", adminEmail).First(&previous).Error; err == nil {
		if err := purge(tx, previous.ID); err != nil {
			return err
		}
	}

	admin := &domain.User{Name: "Demo Admin", Email: adminEmail, PasswordHash: passwordHash, Role: domain.RoleAdmin}
	if err := tx.Create(admin).Error; err != nil {
		return err
	}
	employee := &domain.User{Name: "Demo Employee", Email: employeeEmail, PasswordHash: passwordHash, Role: domain.RoleEmployee, OwnerID: &admin.ID}
	if err := tx.Create(employee).Error; err != nil {
		return err
	}
	ws := admin.ID

	leads := []domain.Lead{
		{WorkspaceID: ws, Name: "Bob Stone", Email: "bob@example.com", Source: "website", Status: domain.LeadNew, ExpectedValue: 1500},
		{WorkspaceID: ws, Name: "Carol White", Email: "carol@example.com", Source: "referral", Status: domain.LeadQualified, ExpectedValue: 4200},
		{WorkspaceID: ws, Name: "Dan Brown", Email: "dan@example.com", Source: "manual", Status: domain.LeadClosed, ExpectedValue: 8000, Converted: true},
	}
	if err := tx.Create(&leads).Error; err != nil {
		return err
	}
	if err := tx.Create(&domain.LeadNote{LeadID: leads[1].ID, Note: "Asked for a proposal by Friday", CreatedBy: employee.ID}).Error; err != nil {
		return err
	}

	client := &domain.Client{WorkspaceID: ws, LeadID: &leads[2].ID, Name: "Dan Brown", Email: "dan@example.com", Company: "Brown & Co", TotalValue: 8000}
	if err := tx.Create(client).Error; err != nil {
		return err
	}

	start := utils.Today()
	deadline := start.AddDate(0, 2, 0)
	project := &domain.Project{
		WorkspaceID: ws, ClientID: client.ID, Name: "Brown & Co website",
		Description: "Marketing site and CMS", TotalAmount: 8000,
		Status: domain.ProjectActive, StartDate: &start, Deadline: &deadline,
	}
	if err := tx.Create(project).Error; err != nil {
		return err
	}

	beta := start.AddDate(0, 1, 0)
	rows := []interface{}{
		&domain.Payment{ProjectID: project.ID, WorkspaceID: ws, Amount: 2000, Type: domain.PaymentAdvance, Status: domain.PaymentPaid, PaymentDate: start, Note: "Advance payment", CreatedBy: admin.ID},
		&domain.Milestone{ProjectID: project.ID, Title: "Beta", Amount: 3000, DueDate: &beta, Status: domain.WorkPending},
		&domain.Requirement{ProjectID: project.ID, Title: "Contact form", Status: domain.WorkInProgress, CreatedBy: admin.ID},
		&domain.Feature{ProjectID: project.ID, Title: "Blog", Status: domain.WorkPending, CreatedBy: employee.ID},
		&domain.ProjectMember{ProjectID: project.ID, UserID: employee.ID, Role: "developer", AssignedBy: admin.ID},
		&domain.Task{CreatedBy: ws, Title: "Collect brand assets", Status: domain.WorkPending, Priority: domain.PriorityHigh, ProjectID: &project.ID, ClientID: &client.ID, AssignedTo: &employee.ID},
		&domain.ActivityLog{ProjectID: project.ID, UserID: admin.ID, Action: "Project created", Metadata: map[string]interface{}{"name": project.Name}, CreatedAt: time.Now()},
	}
	for _, row := range rows {
		if err := tx.Create(row).Error; err != nil {
			return err
		}
	}
	return nil
}

func purge(tx *gorm.DB, workspaceID int64) error {
	projects := tx.Model(&domain.Project{}).Select("id").Where("workspace_id = ?", workspaceID)
	leads := tx.Model(&domain.Lead{}).Select("id").Where("workspace_id = ?", workspaceID)
	tasks := tx.Model(&domain.Task{}).Select("id").Where("created_by = ?", workspaceID)

	steps := []struct {
		model interface{}
		query string
		args  []interface{}
	}{
		{&domain.TaskHistory{}, "task_id IN (?)", []interface{}{tasks}},
		{&domain.Task{}, "created_by = ?", []interface{}{workspaceID}},
		{&domain.Requirement{}, "project_id IN (?)", []interface{}{projects}},
		{&domain.Feature{}, "project_id IN (?)", []interface{}{projects}},
		{&domain.Milestone{}, "project_id IN (?)", []interface{}{projects}},
		{&domain.ProjectMember{}, "project_id IN (?)", []interface{}{projects}},
		{&domain.ActivityLog{}, "project_id IN (?)", []interface{}{projects}},
		{&domain.Payment{}, "workspace_id = ?", []interface{}{workspaceID}},
		{&domain.Project{}, "workspace_id = ?", []interface{}{workspaceID}},
		{&domain.Client{}, "workspace_id = ?", []interface{}{workspaceID}},
		{&domain.LeadNote{}, "lead_id IN (?)", []interface{}{leads}},
		{&domain.Lead{}, "workspace_id = ?", []interface{}{workspaceID}},
		{&domain.User{}, "id = ? OR owner_id = ?", []interface{}{workspaceID, workspaceID}},
	}
	for _, s := range steps {
		if err := tx.Where(s.query, s.args...).Delete(s.model).Error; err != nil {
			return err
		}
	}
	return nil
}
