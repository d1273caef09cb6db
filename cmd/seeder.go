package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			clearTables(gormDB)
		}

		seedRoles(gormDB)
		seedDepartments(gormDB)
		seedSites(gormDB)
		seedEmployees(gormDB)
		seedReferenceData(gormDB)
		seedTicketCounter(gormDB)
		seedDemoTicket(gormDB)
		seedFleet(gormDB)
		seedLineAccount(gormDB)

		fmt.Println("Seeding complete")
	},
}

// clearTables empties everything in foreign-key order. Development
// convenience only; never point this at a shared database.
func clearTables(db *gorm.DB) {
	tables := []string{
		"staged_files",
		"line_accounts",
		"poll_votes",
		"polls",
		"vehicle_positions",
		"vehicles",
		"leave_requests",
		"tickets",
		"ticket_counters",
		"employees",
		"roles",
		"sites",
		"departments",
		"merchandise",
		"package_services",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("failed to clear %s: %v", table, err)
		}
	}
	fmt.Println("Cleared existing data")
}

func seedRoles(db *gorm.DB) {
	roles := []struct {
		Code  string
		Name  string
		Level int
	}{
		{"readonly", "Read Only", 0},
		{"technician", "Technician", 1},
		{"supervisor", "Supervisor", 2},
		{"manager", "Manager", 3},
		{"admin", "Administrator", 4},
		{"superadmin", "Super Admin", 5},
	}

	for _, r := range roles {
		var one int
		if err := db.Raw("SELECT 1 FROM roles WHERE code = ?", r.Code).Row().Scan(&one); err == nil {
			continue
		}
		if err := db.Exec("INSERT INTO roles (id, code, name, level, created_at, updated_at) VALUES (gen_random_uuid(), ?, ?, ?, now(), now())",
			r.Code, r.Name, r.Level).Error; err != nil {
			log.Fatalf("failed to insert role %s: %v", r.Code, err)
		}
		fmt.Printf("Seeded role: %s (level %d)\n", r.Code, r.Level)
	}
}

func seedDepartments(db *gorm.DB) {
	departments := []struct {
		Code   string
		NameTH string
		NameEN string
	}{
		{"FS", "ฝ่ายบริการภาคสนาม", "Field Service"},
		{"HR", "ฝ่ายทรัพยากรบุคคล", "Human Resources"},
	}

	for _, d := range departments {
		var one int
		if err := db.Raw("SELECT 1 FROM departments WHERE code = ?", d.Code).Row().Scan(&one); err == nil {
			continue
		}
		if err := db.Exec("INSERT INTO departments (id, code, name_th, name_en, is_active, created_at, updated_at) VALUES (gen_random_uuid(), ?, ?, ?, true, now(), now())",
			d.Code, d.NameTH, d.NameEN).Error; err != nil {
			log.Fatalf("failed to insert department %s: %v", d.Code, err)
		}
		fmt.Printf("Seeded department: %s\n", d.Code)
	}
}

func seedSites(db *gorm.DB) {
	sites := []struct {
		Code     string
		Name     string
		Province string
		Lat, Lng float64
	}{
		{"BKK-01", "สำนักงานใหญ่", "Bangkok", 13.7563, 100.5018},
		{"CNX-01", "ศูนย์บริการเชียงใหม่", "Chiang Mai", 18.7883, 98.9853},
	}

	for _, s := range sites {
		var one int
		if err := db.Raw("SELECT 1 FROM sites WHERE code = ?", s.Code).Row().Scan(&one); err == nil {
			continue
		}
		if err := db.Exec("INSERT INTO sites (id, code, name, province, latitude, longitude, is_active, created_at, updated_at) VALUES (gen_random_uuid(), ?, ?, ?, ?, ?, true, now(), now())",
			s.Code, s.Name, s.Province, s.Lat, s.Lng).Error; err != nil {
			log.Fatalf("failed to insert site %s: %v", s.Code, err)
		}
		fmt.Printf("Seeded site: %s\n", s.Code)
	}
}

func seedEmployees(db *gorm.DB) {
	employees := []struct {
		Code     string
		FullName string
		Nickname string
		RoleCode string
		DeptCode string
	}{
		{"EMP-001", "Somchai Jaidee", "Chai", "technician", "FS"},
		{"EMP-002", "Suda Meesuk", "Da", "supervisor", "FS"},
		{"EMP-003", "Anan Rakthai", "Nan", "manager", "FS"},
		{"EMP-004", "Wipa Srisuk", "Pa", "admin", "HR"},
		{"EMP-005", "Prasert Boonmee", "Sert", "superadmin", "HR"},
	}

	for _, e := range employees {
		var one int
		if err := db.Raw("SELECT 1 FROM employees WHERE code = ?", e.Code).Row().Scan(&one); err == nil {
			continue
		}

		var roleID string
		if err := db.Raw("SELECT id FROM roles WHERE code = ?", e.RoleCode).Row().Scan(&roleID); err != nil {
			log.Fatalf("role %s not found for employee %s: %v", e.RoleCode, e.Code, err)
		}
		var deptID string
		if err := db.Raw("SELECT id FROM departments WHERE code = ?", e.DeptCode).Row().Scan(&deptID); err != nil {
			log.Fatalf("department %s not found for employee %s: %v", e.DeptCode, e.Code, err)
		}

		// The auth subject matches what `fieldservice token dev-<role>`
		// signs, so seeded accounts work out of the box.
		subject := "dev-" + e.RoleCode
		if err := db.Exec("INSERT INTO employees (id, code, auth_subject, full_name, nickname, role_id, department_id, is_active, created_at, updated_at) VALUES (gen_random_uuid(), ?, ?, ?, ?, ?, ?, true, now(), now())",
			e.Code, subject, e.FullName, e.Nickname, roleID, deptID).Error; err != nil {
			log.Fatalf("failed to insert employee %s: %v", e.Code, err)
		}
		fmt.Printf("Seeded employee: %s (%s)\n", e.Code, e.RoleCode)
	}
}

func seedReferenceData(db *gorm.DB) {
	merchandise := []struct {
		Code string
		Name string
		Unit string
	}{
		{"RTR-AC1200", "เราเตอร์ AC1200", "ตัว"},
		{"ONT-G240", "ONT G-240W", "ตัว"},
		{"CBL-CAT6", "สายแลน CAT6", "เมตร"},
	}
	for _, m := range merchandise {
		var one int
		if err := db.Raw("SELECT 1 FROM merchandise WHERE code = ?", m.Code).Row().Scan(&one); err == nil {
			continue
		}
		if err := db.Exec("INSERT INTO merchandise (id, code, name, unit, is_active, created_at, updated_at) VALUES (gen_random_uuid(), ?, ?, ?, true, now(), now())",
			m.Code, m.Name, m.Unit).Error; err != nil {
			log.Fatalf("failed to insert merchandise %s: %v", m.Code, err)
		}
		fmt.Printf("Seeded merchandise: %s\n", m.Code)
	}

	services := []struct {
		Code  string
		Name  string
		Price float64
	}{
		{"SVC-INSTALL", "ติดตั้งอินเทอร์เน็ตใหม่", 1500},
		{"SVC-REPAIR", "ซ่อมแซมสัญญาณ", 500},
	}
	for _, s := range services {
		var one int
		if err := db.Raw("SELECT 1 FROM package_services WHERE code = ?", s.Code).Row().Scan(&one); err == nil {
			continue
		}
		if err := db.Exec("INSERT INTO package_services (id, code, name, price_thb, is_active, created_at, updated_at) VALUES (gen_random_uuid(), ?, ?, ?, true, now(), now())",
			s.Code, s.Name, s.Price).Error; err != nil {
			log.Fatalf("failed to insert package service %s: %v", s.Code, err)
		}
		fmt.Printf("Seeded package service: %s\n", s.Code)
	}
}

func seedTicketCounter(db *gorm.DB) {
	if err := db.Exec("INSERT INTO ticket_counters (id, value) VALUES (1, 0) ON CONFLICT (id) DO NOTHING").Error; err != nil {
		log.Fatalf("failed to seed ticket counter: %v", err)
	}
}

func seedDemoTicket(db *gorm.DB) {
	var one int
	if err := db.Raw("SELECT 1 FROM tickets WHERE code = ?", "PDE-1").Row().Scan(&one); err == nil {
		return
	}

	var siteID, assigneeID string
	if err := db.Raw("SELECT id FROM sites WHERE code = ?", "BKK-01").Row().Scan(&siteID); err != nil {
		log.Fatalf("demo site not found: %v", err)
	}
	if err := db.Raw("SELECT id FROM employees WHERE code = ?", "EMP-001").Row().Scan(&assigneeID); err != nil {
		log.Fatalf("demo assignee not found: %v", err)
	}

	if err := db.Exec("INSERT INTO tickets (id, code, title, detail, status, priority, site_id, assignee_id, created_at, updated_at) VALUES (gen_random_uuid(), 'PDE-1', ?, ?, 'open', 'normal', ?, ?, now(), now())",
		"ติดตั้งเราเตอร์ลูกค้าใหม่", "ลูกค้านัดช่วงบ่าย", siteID, assigneeID).Error; err != nil {
		log.Fatalf("failed to insert demo ticket: %v", err)
	}
	// Keep the allocator ahead of hand-inserted codes.
	if err := db.Exec("UPDATE ticket_counters SET value = GREATEST(value, 1) WHERE id = 1").Error; err != nil {
		log.Fatalf("failed to advance ticket counter: %v", err)
	}
	fmt.Println("Seeded demo ticket: PDE-1")
}

func seedFleet(db *gorm.DB) {
	var one int
	if err := db.Raw("SELECT 1 FROM vehicles WHERE plate_number = ?", "1กข-1234").Row().Scan(&one); err == nil {
		return
	}

	var assigneeID string
	if err := db.Raw("SELECT id FROM employees WHERE code = ?", "EMP-001").Row().Scan(&assigneeID); err != nil {
		log.Fatalf("vehicle assignee not found: %v", err)
	}

	if err := db.Exec("INSERT INTO vehicles (id, plate_number, model, assignee_id, is_active, created_at, updated_at) VALUES (gen_random_uuid(), ?, ?, ?, true, now(), now())",
		"1กข-1234", "Toyota Hilux", assigneeID).Error; err != nil {
		log.Fatalf("failed to insert vehicle: %v", err)
	}
	fmt.Println("Seeded vehicle: 1กข-1234")
}

func seedLineAccount(db *gorm.DB) {
	lineUserID := "U00000000000000000000000000000dev"

	var one int
	if err := db.Raw("SELECT 1 FROM line_accounts WHERE line_user_id = ?", lineUserID).Row().Scan(&one); err == nil {
		return
	}

	var employeeID string
	if err := db.Raw("SELECT id FROM employees WHERE code = ?", "EMP-001").Row().Scan(&employeeID); err != nil {
		log.Fatalf("line account employee not found: %v", err)
	}

	if err := db.Exec("INSERT INTO line_accounts (id, line_user_id, employee_id, display_name, is_following, created_at, updated_at) VALUES (gen_random_uuid(), ?, ?, ?, true, now(), now())",
		lineUserID, employeeID, "Chai (dev)").Error; err != nil {
		log.Fatalf("failed to insert line account: %v", err)
	}
	fmt.Println("Seeded linked line account for EMP-001")
}
