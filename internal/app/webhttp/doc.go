// Package webhttp реализует HTTP-интерфейс файлового сервера поверх корневого каталога.
// Основные эндпоинты:
//   - GET / и GET /files/ - листинг корня (или сам файл, если корень - файл).
//   - GET /files/{path} - файл с поддержкой Range: bytes=start-end, либо листинг каталога.
//   - POST /register-selection - регистрирует набор файлов/каталогов, отвечает {"id": "..."}.
//   - GET /config/{id} - batch-конфиг для параллельной загрузки выборки.
//   - GET /health и GET /metrics - служебные.
package webhttp
