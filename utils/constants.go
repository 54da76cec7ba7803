package utils

const (
	// Owner review statuses
	ReviewStatusPending   = "pending"
	ReviewStatusConfirmed = "confirmed"
	ReviewStatusDisputed  = "disputed"

	// Field limits for bank transfer payloads and notes
	NoteMaxLength = 280
	MemoMaxLength = 25

	// Payment payload defaults
	DefaultMemo       = "Thanh toan"
	DefaultDebtorName = "User"
	QRTemplate        = "compact"

	// Memo date layout (d/m/yyyy, no zero padding)
	MemoDateLayout = "2/1/2006"

	// HTTP status messages
	ErrInvalidRequest         = "Invalid request"
	ErrTitleRequired          = "Expense title is required"
	ErrInvalidExpenseAmount   = "Expense amount must be a positive number"
	ErrDebtorsRequired        = "Select at least one member who owes this expense"
	ErrUnknownDebtors         = "Some selected members no longer exist or have not completed their profile"
	ErrDebtorMissingEmail     = "Some selected members have no email on their profile"
	ErrCreatorProfileRequired = "Complete your profile before creating an expense"
	ErrNotDebtor              = "You are not allowed to update this debt"
	ErrNotDebtOwner           = "Only the expense creator can review this debt"
	ErrIncompletePayeeProfile = "The expense creator has not completed their bank information"
	ErrInvalidBankAccount     = "The payee bank account number is invalid"
	ErrInvalidBankCode        = "The payee bank code (BIN) is invalid"
	ErrInvalidAmount          = "The amount to pay is invalid"
	ErrInvalidReviewStatus    = "Unknown review status"
	ErrBankInfoRequired       = "Bank code, account number and account holder are all required"
	ErrEmailRequired          = "Your account has no valid email"
	ErrFailedToStore          = "Failed to store data"
	ErrFailedToRetrieve       = "Failed to retrieve data"
	ErrQRGeneration           = "Could not generate the payment QR code"
	ErrQRNotConfigured        = "VietQR credentials are not configured"
)
