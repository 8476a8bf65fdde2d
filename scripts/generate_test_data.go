package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/xuri/excelize/v2"

	"olccprices/database"
	"olccprices/importer"
)

var liquorTypes = []string{
	"VODKA", "GIN", "RUM", "BOURBON", "WHISKEY", "TEQUILA",
	"BRANDY", "SCOTCH", "CANADIAN", "LIQUEUR",
}

var bottleSizes = []string{"750 ML", "1.75 LTR", "375 ML", "1 LTR", "200 ML"}

var oregonCounties = []string{
	"Multnomah", "Washington", "Clackamas", "Lane", "Marion",
	"Jackson", "Deschutes", "Linn", "Douglas", "Yamhill",
}

func main() {
	gofakeit.Seed(0)

	sizes := []struct {
		name string
		size int
	}{
		{"100", 100},
		{"1K", 1000},
	}

	dataDir := filepath.Join("testdata", "generated")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	for _, size := range sizes {
		fmt.Printf("Generating %s price records...\n", size.name)

		filename := filepath.Join(dataDir, fmt.Sprintf("price_list_%s.csv", size.name))
		if err := writePriceCSV(filename, size.size); err != nil {
			log.Fatalf("Failed to write %s: %v", filename, err)
		}

		fmt.Printf("Generated %s records in %s\n", size.name, filename)
	}

	fmt.Println("\nGenerating store workbook...")
	storesPath := filepath.Join(dataDir, "stores.xlsx")
	if err := writeStoreWorkbook(storesPath, 250); err != nil {
		log.Fatalf("Failed to write %s: %v", storesPath, err)
	}
	fmt.Printf("Generated store workbook in %s\n", storesPath)

	fmt.Println("\nGenerating SQLite database...")
	generateSQLiteDB(dataDir)
}

// priceRow generates one fake numeric price list row
func priceRow(i int) []string {
	code := gofakeit.Numerify("####")
	if gofakeit.Bool() {
		code += gofakeit.RandomString([]string{"B", "E", "F"})
	}

	status := ""
	if i%25 == 0 {
		status = gofakeit.RandomString([]string{"NEW", "DISC"})
	}

	title := fmt.Sprintf("%s %s", sampleUpperName(), gofakeit.RandomString(liquorTypes))

	age := ""
	if gofakeit.Bool() {
		if gofakeit.Number(0, 9) == 0 {
			age = fmt.Sprintf("%d MOS", gofakeit.Number(6, 23))
		} else {
			age = fmt.Sprintf("%d YRS", gofakeit.Number(2, 21))
		}
	}

	effective := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.UTC)

	return []string{
		code,
		status,
		title,
		gofakeit.RandomString(bottleSizes),
		age,
		strconv.Itoa(gofakeit.Number(60, 151)),
		gofakeit.RandomString([]string{"6", "12", "12.0", "24", "48.0"}),
		fmt.Sprintf("$%d.%02d", gofakeit.Number(5, 200), gofakeit.Number(0, 99)),
		effective.Format("01/02/2006"),
	}
}

func sampleUpperName() string {
	name := gofakeit.LastName()
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if r >= 'a' && r <= 'z' {
			r = r - 'a' + 'A'
		}
		out = append(out, r)
	}
	return string(out)
}

func writePriceCSV(filename string, count int) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	// Header rows are skipped by the code gate, like the real list
	if err := w.Write(importer.PriceRowKeys); err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		if err := w.Write(priceRow(i)); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeStoreWorkbook(filename string, count int) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Store #", "Name", "Phone", "Address", "Hours", "County"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		addr := gofakeit.Address()
		row := []interface{}{
			i + 1,
			sampleUpperName(),
			gofakeit.Numerify("(503) ###-####"),
			fmt.Sprintf("%s, %s, OR %s", addr.Street, addr.City, addr.Zip),
			"Mon-Sat 9am-8pm",
			gofakeit.RandomString(oregonCounties),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SaveAs(filename)
}

// generateSQLiteDB seeds a database through the import pipeline itself
func generateSQLiteDB(dataDir string) {
	dbPath := filepath.Join(dataDir, "test_data.db")

	os.Remove(dbPath)

	db, err := database.NewPricesDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	rows := make([][]string, 0, 1000)
	for i := 0; i < 1000; i++ {
		rows = append(rows, priceRow(i))
	}

	im := importer.NewPriceImporter(db, true)
	result, err := im.ImportPriceRows(rows)
	if err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Printf("Generated SQLite database with %d records in %s\n", result.Imported, dbPath)
}
