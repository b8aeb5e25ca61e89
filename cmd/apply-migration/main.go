package main

import (
	"fmt"
	"log"
	"os"

	"nyumbani-data/internal/config"
	"nyumbani-data/internal/database"
)

// 把迁移文件整体提交给服务器执行。文件内没有 psql 元命令，
// lib/pq 的 simple query 协议可以一次跑多条语句。
func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <migration_file.sql>", os.Args[0])
	}

	sqlContent, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read migration file: %v", err)
	}

	cfg := config.Load()
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Cannot connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(string(sqlContent)); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	fmt.Printf("Migration %s applied to %s\n", os.Args[1], cfg.Database.Database)
}
