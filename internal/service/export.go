package service

import (
    "bytes"
    "fmt"

    "github.com/xuri/excelize/v2"

    "github.com/iliyamo/employee-portal/internal/model"
)

// EmployeeSheet is the sheet name of the employee export.
const EmployeeSheet = "Employees"

var exportHeaders = []string{
    "ID", "Name", "Email", "Role", "Job Title", "Department",
    "Address", "Phone", "Designation", "Status", "Salary",
}

// EmployeeWorkbook renders employees as an .xlsx file: a header row, then
// one row per employee in list order.
func EmployeeWorkbook(employees []model.Employee) ([]byte, error) {
    f := excelize.NewFile()
    defer f.Close()

    if err := f.SetSheetName("Sheet1", EmployeeSheet); err != nil {
        return nil, fmt.Errorf("rename sheet: %w", err)
    }
    if err := f.SetSheetRow(EmployeeSheet, "A1", &exportHeaders); err != nil {
        return nil, fmt.Errorf("write header: %w", err)
    }
    for i, e := range employees {
        cell, err := excelize.CoordinatesToCellName(1, i+2)
        if err != nil {
            return nil, err
        }
        row := []interface{}{
            e.ID, e.Name, e.Email, e.Role, e.JobTitle, e.Department,
            e.Address, e.Phone, e.Designation, e.Status, e.Salary,
        }
        if err := f.SetSheetRow(EmployeeSheet, cell, &row); err != nil {
            return nil, fmt.Errorf("write row %d: %w", i+2, err)
        }
    }
    if err := f.SetColWidth(EmployeeSheet, "B", "J", 18); err != nil {
        return nil, err
    }

    var buf bytes.Buffer
    if err := f.Write(&buf); err != nil {
        return nil, fmt.Errorf("write workbook: %w", err)
    }
    return buf.Bytes(), nil
}
