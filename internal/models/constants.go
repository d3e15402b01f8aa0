package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const (
	StateMainMenu          = "main_menu"
	StateSelectRestaurant  = "select_restaurant"
	StateEnterName         = "enter_name"
	StateEnterEmail        = "enter_email"
	StateEnterPhone        = "enter_phone"
	StateEnterGuests       = "enter_guests"
	StateSelectDate        = "select_date"
	StateSelectTime        = "select_time"
	StateConfirmation      = "confirmation"
	StateAwaitingPayment   = "awaiting_payment"
	StateViewReservations  = "view_reservations"
	StateEditProfile       = "edit_profile"
	StateEnterFeedback     = "enter_feedback"
	StateAuthEnterEmail    = "auth_enter_email"
	StateAuthEnterPassword = "auth_enter_password"
	StateAuthEnterName     = "auth_enter_name"
	StateSearchRestaurants = "search_restaurants"
)

const (
	// DefaultStateTTL время жизни состояния пользователя в Redis
	DefaultStateTTL = 24 * 60 * 60 // 24 часа в секундах

	// DefaultDepositAmount фиксированный депозит за бронирование
	DefaultDepositAmount = 200

	// DefaultCurrency валюта депозита
	DefaultCurrency = "ZAR"

	// ReminderHour час, в который отправляются напоминания
	ReminderHour = 9

	// WorkerQueueSize размер очереди воркера напоминаний
	WorkerQueueSize = 1000

	// DefaultPaginationSize размер страницы списка ресторанов
	DefaultPaginationSize = 8

	// DefaultReservationsPaginationSize размер страницы списка броней
	DefaultReservationsPaginationSize = 5

	// RateLimitMessages количество сообщений в окне
	RateLimitMessages = 20

	// RateLimitWindow окно ограничения частоты сообщений
	RateLimitWindow = 60 // 1 минута в секундах

	// DirectoryCacheTTL время жизни кэша списка ресторанов
	DirectoryCacheTTL = 30 * 60 // 30 минут в секундах
)
