package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collections names every collection the directory uses.
type Collections struct {
	Contractors         string
	States              string
	Services            string
	Certifications      string
	ZipCodes            string
	FailedNotifications string
}

// ContractorDocument is the stored listing. Tag associations are kept as
// ObjectID references into the tag collections.
type ContractorDocument struct {
	ID               primitive.ObjectID   `bson:"_id"`
	Name             string               `bson:"name"`
	Email            string               `bson:"email,omitempty"`
	Phone            string               `bson:"phone,omitempty"`
	Website          string               `bson:"website,omitempty"`
	AddressLine1     string               `bson:"addressLine1,omitempty"`
	AddressLine2     string               `bson:"addressLine2,omitempty"`
	City             string               `bson:"city,omitempty"`
	State            string               `bson:"state,omitempty"`
	Zip              string               `bson:"zip,omitempty"`
	IsDraft          bool                 `bson:"isDraft"`
	StateIDs         []primitive.ObjectID `bson:"statesServed"`
	ServiceIDs       []primitive.ObjectID `bson:"services"`
	CertificationIDs []primitive.ObjectID `bson:"certifications"`
	CreatedAt        time.Time            `bson:"createdAt"`
	UpdatedAt        time.Time            `bson:"updatedAt"`
	PublishedAt      *time.Time           `bson:"publishedAt,omitempty"`
}

// StateDocument is one entry of the states collection.
type StateDocument struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Title string             `bson:"title,omitempty"`
}

// ServiceDocument is one entry of the services collection.
type ServiceDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
}

// CertificationDocument is one entry of the certifications collection.
type CertificationDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	ShortName   string             `bson:"shortName"`
	Description string             `bson:"description,omitempty"`
}

// ZipCodeDocument stores a zip centroid keyed by the zip itself.
type ZipCodeDocument struct {
	Zip string  `bson:"_id"`
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

// FailedNotificationDocument keeps an admin alert that could not be delivered.
type FailedNotificationDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Target      string             `bson:"target"`
	Payload     map[string]string  `bson:"payload"`
	Error       string             `bson:"error"`
	Attempts    int                `bson:"attempts"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	LastTriedAt time.Time          `bson:"lastTriedAt"`
}
