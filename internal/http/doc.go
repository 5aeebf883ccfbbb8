// Package http provides HTTP handlers and middleware for the attendance API.
//
// The router exposes the following endpoints:
//   - POST /login: issues a bearer token. Body: {"emp_no","password"}. Response:
//     {"token","expires_at","employee"}. Only acting admins may log in.
//   - GET /employees, POST /employees, GET /employees/{emp_no}: directory
//     endpoints exchanging the `employeeDTO` payload defined in
//     employee_handler.go. Registration requires the acting admin role.
//   - POST /attendance/checkin, POST /attendance/checkout, POST /attendance/mark:
//     shift mutations exchanging the `recordDTO` payload defined in
//     attendance_handler.go. The marking actor is taken from the bearer token.
//   - GET /attendance/status, GET /attendance/records: read endpoints keyed by
//     the `employee_id` query parameter.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
