package models

// User defines the structure for user accounts
type User struct {
	UserID            string `dynamodbav:"userId" json:"userId"`
	Name              string `dynamodbav:"name" json:"name"`
	Age               int    `dynamodbav:"age" json:"age"`
	Gender            string `dynamodbav:"gender" json:"gender"`
	Bio               string `dynamodbav:"bio" json:"bio"`
	ProfileImage      string `dynamodbav:"profileImage" json:"profileImage"`
	Email             string `dynamodbav:"email" json:"email"`
	PasswordHash      string `dynamodbav:"passwordHash" json:"-"`
	EmailVerified     bool   `dynamodbav:"emailVerified" json:"emailVerified"`
	VerificationToken string `dynamodbav:"verificationToken,omitempty" json:"-"`
	TokenExpires      string `dynamodbav:"tokenExpires,omitempty" json:"-"`
	IsBanned          bool   `dynamodbav:"isBanned" json:"-"`
	IsAdmin           bool   `dynamodbav:"isAdmin" json:"-"`
	CreatedAt         string `dynamodbav:"createdAt" json:"createdAt"`
}

// PublicProfile is the subset of User exposed to other users
type PublicProfile struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Gender       string `json:"gender"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profileImage"`
}

// Public strips credentials and moderation fields from a user record
func (u *User) Public() PublicProfile {
	return PublicProfile{
		UserID:       u.UserID,
		Name:         u.Name,
		Age:          u.Age,
		Gender:       u.Gender,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
	}
}

// ProfileUpdate carries the editable profile fields
type ProfileUpdate struct {
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Gender       string `json:"gender"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profileImage"`
}

// DeletedUser is the tombstone kept after account deletion. It is only
// consulted to enforce the re-registration cooldown.
type DeletedUser struct {
	Email     string `dynamodbav:"email" json:"email"`
	DeletedAt string `dynamodbav:"deletedAt" json:"deletedAt"`
}

// UsersTable is the DynamoDB table name for user accounts
const UsersTable = "Users"

// DeletedUsersTable is the DynamoDB table name for deletion tombstones
const DeletedUsersTable = "DeletedUsers"
