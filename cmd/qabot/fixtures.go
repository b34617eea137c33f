// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"

	"github.com/poiesic/qabot/ingestion"
)

// fixtureSet is a named, built-in batch of question/answer pairs.
type fixtureSet struct {
	idPrefix string
	source   string
	pairs    [][2]string
}

var fixtureSets = map[string]fixtureSet{
	"test": {
		idPrefix: "test-",
		source:   "test",
		pairs: [][2]string{
			{"What is AWS Lambda?", "AWS Lambda is a compute service that runs your code without managing servers. It scales automatically in response to events."},
			{"What are the advantages of DynamoDB?", "DynamoDB is a fully managed NoSQL database with high performance, automatic scaling and a flexible data model."},
			{"What is CloudFront?", "CloudFront is the AWS content delivery network. It delivers content quickly through edge locations around the world."},
			{"What is an S3 bucket?", "S3 stands for Simple Storage Service, the AWS object storage service. A bucket is the top-level container in S3."},
			{"What is Bedrock?", "Amazon Bedrock is a fully managed service that offers foundation models through an API."},
		},
	},
	"perso": {
		idPrefix: "perso-",
		source:   "perso.ai",
		pairs: [][2]string{
			{"What kind of service is Perso.ai?", "Perso.ai is a multilingual AI video dubbing platform developed by ESTsoft that helps anyone create and share video without language barriers."},
			{"What are the main features of Perso.ai?", "Perso.ai offers AI voice synthesis, lip sync and video dubbing. Users can add a voice in another language to an original video and synchronize mouth movements automatically."},
			{"What technology does Perso.ai use?", "Perso.ai combines speech synthesis and translation from global technology partners with its own lip sync engine."},
			{"How many people use Perso.ai?", "As of 2025, more than 200,000 users worldwide have made AI-based videos with Perso.ai."},
			{"Who are Perso.ai's main customers?", "YouTubers, course creators and corporate marketers who want to take their video content into more languages."},
			{"How many languages does Perso.ai support?", "It currently supports more than 30 languages, including Korean, English, Japanese, Spanish and Portuguese."},
			{"How is Perso.ai priced?", "Perso.ai uses a usage-based subscription model with Free, Creator, Pro and Enterprise plans, paid through Stripe."},
			{"Which company developed Perso.ai?", "Perso.ai was developed by the software company ESTsoft."},
			{"What kind of company is ESTsoft?", "ESTsoft is an IT company founded in 1993, known for everyday software such as ALZip and ALYac, and now focused on AI services."},
			{"Do I need to sign up to use Perso.ai?", "Yes. You can sign up with an email address or a Google account and start using the service."},
			{"Do I need video editing skills to use Perso.ai?", "No. Perso.ai is designed so that anyone can start dubbing right away without editing experience."},
			{"How do I contact Perso.ai support?", "Use the contact button at the bottom of the Perso.ai website to reach support by email or chat."},
		},
	},
}

// rows returns the set as ingestion rows with ids prefix1..prefixN.
func (s fixtureSet) rows() []ingestion.Row {
	rows := make([]ingestion.Row, len(s.pairs))
	for i, p := range s.pairs {
		rows[i] = ingestion.Row{
			Line:     i + 1,
			Id:       fmt.Sprintf("%s%d", s.idPrefix, i+1),
			Question: p[0],
			Answer:   p[1],
		}
	}
	return rows
}
